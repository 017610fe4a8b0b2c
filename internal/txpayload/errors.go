package txpayload

import "strings"

// ValidationError reports every violated rule at once so callers can show
// the user a complete list instead of fixing one problem per attempt.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid transaction request: " + strings.Join(e.Violations, "; ")
}

// newValidationError returns nil when there are no violations.
func newValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
