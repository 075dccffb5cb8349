package karma

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidOrdering marks a programmer error: an ordering value the
	// aggregator does not recognize. It is never defaulted away.
	ErrInvalidOrdering = errors.New("invalid ordering")
)
