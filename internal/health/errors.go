package health

import (
	"errors"
	"fmt"
)

// CodeCalculation is the machine-readable code carried by every
// CalculationError.
const CodeCalculation = "CALCULATION_ERROR"

// CalculationError is the only error Calculate returns. Cause holds the
// underlying failure when there is one.
type CalculationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("health: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("health: %s: %s", e.Code, e.Message)
}

func (e *CalculationError) Unwrap() error { return e.Cause }

func newCalculationError(msg string, cause error) *CalculationError {
	return &CalculationError{Code: CodeCalculation, Message: msg, Cause: cause}
}

// IsCalculationError reports whether err is, or wraps, a CalculationError.
func IsCalculationError(err error) bool {
	var ce *CalculationError
	return errors.As(err, &ce)
}
