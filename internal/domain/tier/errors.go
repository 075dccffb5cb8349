package tier

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnparseableClass = errors.New("unparseable flair class")
)
