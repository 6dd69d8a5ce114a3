package commute

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCostMode is matched by every UnsupportedCostModeError.
var ErrUnsupportedCostMode = errors.New("unsupported cost mode")

// UnsupportedCostModeError reports a request whose cost mode the calculator
// cannot resolve. It is a wiring error, never a user input error.
type UnsupportedCostModeError struct {
	Mode CostCalculationMode
}

func (e *UnsupportedCostModeError) Error() string {
	if e.Mode == "" {
		return fmt.Sprintf("%s: no commute settings provided", ErrUnsupportedCostMode)
	}
	return fmt.Sprintf("%s: calculation for %q mode is not implemented", ErrUnsupportedCostMode, e.Mode)
}

// Is reports whether target is ErrUnsupportedCostMode.
func (e *UnsupportedCostModeError) Is(target error) bool {
	return target == ErrUnsupportedCostMode
}
