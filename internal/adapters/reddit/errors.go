package reddit

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrAuthFailed = errors.New("auth failed")
	ErrAPIRequest = errors.New("api request failed")
)
