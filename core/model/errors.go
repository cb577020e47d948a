package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks request-validation failures. Callers can retry
// with corrected input; surfaces map it to their bad-request responses.
var ErrInvalidRequest = errors.New("invalid request")

// Invalidf builds an error wrapping ErrInvalidRequest.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidRequest)
}
