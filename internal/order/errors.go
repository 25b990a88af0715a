package order

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder wraps construction-time order defects: zero quantity,
// malformed parameters, option exercise on a non-option, etc.
var ErrInvalidOrder = errors.New("order: invalid order")

// invalidOrder wraps ErrInvalidOrder with a human-readable reason.
func invalidOrder(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOrder, reason)
}
