package validate

// Sandbox evaluates profile-authored expressions against a Scope. It is
// the engine's only dependency on a concrete expression language; see
// the cel subpackage for a github.com/google/cel-go-backed implementation.
//
// A Sandbox must be reentrant across the many expressions evaluated
// within one traversal, but need not be safe for two traversals to share
// concurrently — each traversal gets its own Scope from Initialise.
type Sandbox interface {
	// Initialise creates a fresh Scope for one traversal.
	Initialise() (*Scope, error)

	// EvalExpression evaluates a profile-authored expression that does
	// not reference the current object (e.g. a variable's default
	// value) and returns its unwrapped value.
	EvalExpression(source string, scope *Scope) (any, error)

	// EvalPredicate binds object under SelfKey, evaluates rule's
	// predicate expression, and coerces the result to a bool. Any
	// evaluation error or non-bool result is reported as false; it is
	// never returned as an error (§4.1, §7 PredicateFault).
	EvalPredicate(object Object, rule *Rule, scope *Scope) bool

	// EvalVariableUpdate binds object under SelfKey and evaluates
	// variable's update expression, returning its unwrapped value. The
	// caller (the Variable Store) is responsible for writing the result
	// back into scope.
	EvalVariableUpdate(variable *Variable, object Object, scope *Scope) (any, error)

	// EvalErrorArguments evaluates each argument's expression against
	// object and returns a copy of arguments with Value/Evaluated filled
	// in, for template substitution.
	EvalErrorArguments(object Object, arguments []ErrorArgument, scope *Scope) []ErrorArgument

	// ExitScope releases any state associated with scope. Called once
	// per successful Initialise, when Validate returns: after the
	// deferred-rule flush, or without one if the run aborted with an
	// error.
	ExitScope(scope *Scope) error
}
