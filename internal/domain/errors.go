package domain

import (
	"errors"
	"fmt"

	m "gooze.dev/pkg/playground/internal/model"
)

// ErrUnrecoverableBuild is matched by every fatal compile and rollback outcome.
var ErrUnrecoverableBuild = errors.New("could not build after mutation")

// UnrecoverableBuildError reports a mutated build that rollback cannot
// repair: an error with no location, a repair that removed nothing or an
// exhausted attempt budget.
type UnrecoverableBuildError struct {
	Reason     string
	Diagnostic *m.Diagnostic
	Attempts   int
}

func (e *UnrecoverableBuildError) Error() string {
	msg := fmt.Sprintf("%s: %s (after %d attempts)", ErrUnrecoverableBuild, e.Reason, e.Attempts)
	if e.Diagnostic != nil {
		msg += ": " + e.Diagnostic.String()
	}

	return msg
}

// Is reports whether target is ErrUnrecoverableBuild.
func (e *UnrecoverableBuildError) Is(target error) bool {
	return target == ErrUnrecoverableBuild
}

// ErrCompilationFailed is returned when the submitted unit does not compile.
var ErrCompilationFailed = errors.New("compilation failed")

// ErrUnitTestsFailed is returned when the unmutated unit tests do not pass.
var ErrUnitTestsFailed = errors.New("unit tests failed")
