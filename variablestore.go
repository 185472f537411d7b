package validate

import "github.com/pkg/errors"

// variableStore owns the profile's accumulator variables for one
// traversal: it evaluates Default once at Initialise and re-evaluates
// Update after every object whose type, or any super-type, matches the
// variable's TargetType (§4.3). The Sandbox computes the new value; the
// store is what writes it back into Scope, keeping "evaluate" and
// "hold state" in separate components as spec'd.
type variableStore struct {
	profile Profile
	sandbox Sandbox
	scope   *Scope
}

func newVariableStore(profile Profile, sandbox Sandbox, scope *Scope) *variableStore {
	return &variableStore{profile: profile, sandbox: sandbox, scope: scope}
}

// initialise evaluates every variable's default expression and binds it
// in scope. A default-expression failure aborts the run: it signals a
// profile authoring error the caller should see before any traversal
// work is wasted.
func (vs *variableStore) initialise() error {
	for _, v := range vs.profile.Variables() {
		value, err := vs.sandbox.EvalExpression(v.Default, vs.scope)
		if err != nil {
			return errors.Wrapf(err, "evaluating default for variable %q", v.Name)
		}
		vs.scope.Set(v.Name, value)
	}
	return nil
}

// update re-evaluates every variable targeting object's type or any of
// its super-types. A single variable's update failure is not fatal: the
// variable simply keeps its previous value, so one bad accumulator
// expression cannot halt an otherwise healthy traversal.
func (vs *variableStore) update(object Object) {
	vs.updateFor(object, object.ObjectType())
	for _, superType := range object.SuperTypes() {
		vs.updateFor(object, superType)
	}
}

func (vs *variableStore) updateFor(object Object, objectType string) {
	for _, v := range vs.profile.VariablesByObjectType(objectType) {
		if v == nil {
			continue
		}
		value, err := vs.sandbox.EvalVariableUpdate(v, object, vs.scope)
		if err != nil {
			continue
		}
		vs.scope.Set(v.Name, value)
	}
}
