package cli

import "fmt"

// ExitError is an error that carries a specific process exit code.
// Commands return it from RunE so main can exit with Code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes.
const (
	exitLookupFailed = 1
	exitUsage        = 2
)

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
