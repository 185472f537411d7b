// Package cel implements validate.Sandbox using Google's cel-go,
// matching the teacher's own choice of CEL as its expression evaluator
// (indigo's cel/cel.go), ported to the modern cel-go API.
package cel

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
	"github.com/pkg/errors"

	"github.com/profileval/engine"
)

// Evaluator is a validate.Sandbox backed by cel-go. One cel.Env is built
// per Scope, at Initialise, declaring validate.SelfKey plus every
// profile variable as a dynamically typed (cel.DynType) binding, so
// rules can be authored against object attribute sets unknown at
// compile time (see SPEC_FULL.md §3, Attribute access).
//
// Compiled programs are cached per expression string for the lifetime
// of a Scope, avoiding repeated parse/check work across the many
// objects one traversal visits.
type Evaluator struct {
	profile validate.Profile
}

// NewEvaluator returns an Evaluator whose CEL environment declares a
// binding for every variable in profile.
func NewEvaluator(profile validate.Profile) *Evaluator {
	return &Evaluator{profile: profile}
}

// environment is stashed in Scope.Native; it is private to this package.
type environment struct {
	env      *celgo.Env
	programs map[string]celgo.Program
}

// Initialise builds the shared cel.Env for this traversal and returns a
// fresh Scope carrying it.
func (e *Evaluator) Initialise() (*validate.Scope, error) {
	scope := validate.NewScope()

	opts := []celgo.EnvOption{celgo.Variable(validate.SelfKey, celgo.DynType)}
	seen := map[string]bool{}
	for _, v := range e.profile.Variables() {
		if v == nil || seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		opts = append(opts, celgo.Variable(v.Name, celgo.DynType))
	}

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "building CEL environment")
	}

	scope.Native = &environment{env: env, programs: make(map[string]celgo.Program)}
	return scope, nil
}

// ExitScope drops the cached environment and compiled programs.
func (e *Evaluator) ExitScope(scope *validate.Scope) error {
	scope.Native = nil
	return nil
}

// EvalExpression evaluates source with no "current object" bound — used
// for a variable's default-value expression, evaluated before any
// object has been visited.
func (e *Evaluator) EvalExpression(source string, scope *validate.Scope) (any, error) {
	prg, err := e.program(scope, source)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(activation(scope, nil))
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating expression %q", source)
	}
	return unwrap(out), nil
}

// EvalPredicate evaluates rule's predicate with object bound under
// validate.SelfKey. Per §4.1, any compile error, evaluation error, or
// non-bool result is treated as false — never propagated.
func (e *Evaluator) EvalPredicate(object validate.Object, rule *validate.Rule, scope *validate.Scope) bool {
	if rule.Expr == "" {
		return true
	}
	prg, err := e.program(scope, rule.Expr)
	if err != nil {
		return false
	}
	out, _, err := prg.Eval(activation(scope, object))
	if err != nil {
		return false
	}
	b, ok := unwrap(out).(bool)
	return ok && b
}

// EvalVariableUpdate evaluates variable's update expression with object
// bound under validate.SelfKey.
func (e *Evaluator) EvalVariableUpdate(variable *validate.Variable, object validate.Object, scope *validate.Scope) (any, error) {
	prg, err := e.program(scope, variable.Update)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(activation(scope, object))
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating update for variable %q", variable.Name)
	}
	return unwrap(out), nil
}

// EvalErrorArguments evaluates each argument's expression against
// object, returning a copy of arguments with Value/Evaluated filled in.
// An individual argument whose expression fails to evaluate is left
// with Evaluated == false, which result.go renders as "null".
func (e *Evaluator) EvalErrorArguments(object validate.Object, arguments []validate.ErrorArgument, scope *validate.Scope) []validate.ErrorArgument {
	out := make([]validate.ErrorArgument, len(arguments))
	for i, arg := range arguments {
		out[i] = arg
		prg, err := e.program(scope, arg.Expr)
		if err != nil {
			continue
		}
		val, _, err := prg.Eval(activation(scope, object))
		if err != nil {
			continue
		}
		out[i].Value = unwrap(val)
		out[i].Evaluated = true
	}
	return out
}

// Diagnose returns the parsed AST of source as text, for troubleshooting
// a profile expression, in the style of the teacher's cel/cel.go
// diagnostic printer (minus its genproto-based AST walk, superseded by
// cel.AstToString in the modern API).
func (e *Evaluator) Diagnose(scope *validate.Scope, source string) (string, error) {
	env, ok := scope.Native.(*environment)
	if !ok || env == nil {
		return "", errors.New("sandbox scope not initialised")
	}
	ast, iss := env.env.Compile(source)
	if iss != nil && iss.Err() != nil {
		return "", errors.Wrapf(iss.Err(), "compiling expression %q", source)
	}
	text, err := celgo.AstToString(ast)
	if err != nil {
		return "", errors.Wrap(err, "rendering AST")
	}
	return text, nil
}

func (e *Evaluator) program(scope *validate.Scope, source string) (celgo.Program, error) {
	env, ok := scope.Native.(*environment)
	if !ok || env == nil {
		return nil, errors.New("sandbox scope not initialised")
	}
	if prg, ok := env.programs[source]; ok {
		return prg, nil
	}

	ast, iss := env.env.Compile(source)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compiling expression %q", source)
	}
	prg, err := env.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "building program for %q", source)
	}

	env.programs[source] = prg
	return prg, nil
}

func activation(scope *validate.Scope, object validate.Object) map[string]any {
	act := scope.Snapshot()
	if object != nil {
		act[validate.SelfKey] = objectToMap(object)
	}
	return act
}

// objectToMap merges an Object's formal traversal fields with its
// Attributes() into a single dynamic map, which CEL can field-select
// into without any compile-time schema.
func objectToMap(object validate.Object) map[string]any {
	attrs := object.Attributes()
	m := make(map[string]any, len(attrs)+5)
	for k, v := range attrs {
		m[k] = v
	}
	m["object_type"] = object.ObjectType()
	m["super_types"] = toAnySlice(object.SuperTypes())
	if id, ok := object.ID(); ok {
		m["id"] = id
	}
	m["context"] = object.Context()
	if extra, ok := object.ExtraContext(); ok {
		m["extra_context"] = extra
	}
	return m
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func unwrap(v ref.Val) any {
	if v == nil {
		return nil
	}
	return v.Value()
}
