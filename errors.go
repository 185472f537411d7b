package validate

import (
	"fmt"

	"github.com/pkg/errors"
)

// JobEndStatus describes how a validation run concluded.
type JobEndStatus string

const (
	StatusNormal    JobEndStatus = "NORMAL"
	StatusCancelled JobEndStatus = "CANCELLED"
)

// StructuralFault reports a malformed object graph encountered during
// traversal: a nil link-name list, an empty link name, a nil child list
// for a link, or a nil child object. Fatal — aborts the run (§7).
type StructuralFault struct {
	ContextPath string
	Reason      string
}

func (f *StructuralFault) Error() string {
	return fmt.Sprintf("structural fault at %q: %s", f.ContextPath, f.Reason)
}

// ValidationError wraps any fault that aborts a run before a
// ValidationResult can be produced: a StructuralFault, an error
// surfaced by the parser collaborator (ParserFault in §7), a Sandbox
// initialisation failure, or a failed variable default expression.
type ValidationError struct {
	cause error
}

func (e *ValidationError) Error() string { return e.cause.Error() }
func (e *ValidationError) Unwrap() error { return e.cause }

// Format supports %+v to print the wrapped cause's stack trace, when
// the cause was produced with github.com/pkg/errors.
func (e *ValidationError) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "%+v", e.cause)
		return
	}
	fmt.Fprint(f, e.Error())
}

func newValidationError(cause error) *ValidationError {
	return &ValidationError{cause: cause}
}

func wrapParserFault(err error, contextPath string) *ValidationError {
	return newValidationError(errors.Wrapf(err, "parser fault at %q", contextPath))
}

func wrapStructuralFault(f *StructuralFault) *ValidationError {
	return newValidationError(errors.WithStack(f))
}
