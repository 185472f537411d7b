package cel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profileval/engine"
	"github.com/profileval/engine/cel"
	"github.com/profileval/engine/memgraph"
	"github.com/profileval/engine/memprofile"
)

func TestEvaluator_EvalPredicate(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	obj := memgraph.New("LineItem", "item").WithAttribute("amount", 10.0)

	rule := &validate.Rule{Expr: "obj.amount > 5"}
	assert.True(t, e.EvalPredicate(obj, rule, scope))

	rule2 := &validate.Rule{Expr: "obj.amount > 50"}
	assert.False(t, e.EvalPredicate(obj, rule2, scope))
}

func TestEvaluator_EvalPredicate_ErrorCoercesToFalse(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	obj := memgraph.New("LineItem", "item")
	rule := &validate.Rule{Expr: "obj.nonexistent_field.deeper"}
	assert.False(t, e.EvalPredicate(obj, rule, scope))
}

func TestEvaluator_EvalPredicate_EmptyExprAlwaysPasses(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	assert.True(t, e.EvalPredicate(memgraph.New("T", "x"), &validate.Rule{Expr: ""}, scope))
}

func TestEvaluator_VariableDefaultAndUpdate(t *testing.T) {
	v := &validate.Variable{Name: "count", TargetType: "T", Default: "0", Update: "count + 1"}
	profile := memprofile.New([]*validate.Variable{v}, nil)
	e := cel.NewEvaluator(profile)

	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	def, err := e.EvalExpression(v.Default, scope)
	require.NoError(t, err)
	scope.Set("count", def)

	obj := memgraph.New("T", "x")
	for i := 0; i < 3; i++ {
		updated, err := e.EvalVariableUpdate(v, obj, scope)
		require.NoError(t, err)
		scope.Set("count", updated)
	}

	got, ok := scope.Get("count")
	require.True(t, ok)
	assert.EqualValues(t, 3, got)
}

func TestEvaluator_Diagnose(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	ast, err := e.Diagnose(scope, "obj.amount > 5")
	require.NoError(t, err)
	assert.Contains(t, ast, "obj")
	assert.Contains(t, ast, "amount")
}

func TestEvaluator_Diagnose_CompileError(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	_, err = e.Diagnose(scope, "obj.amount >")
	assert.Error(t, err)
}

func TestEvaluator_EvalErrorArguments(t *testing.T) {
	profile := memprofile.New(nil, nil)
	e := cel.NewEvaluator(profile)
	scope, err := e.Initialise()
	require.NoError(t, err)
	defer e.ExitScope(scope)

	obj := memgraph.New("LineItem", "item").WithAttribute("name", "Widget")
	args := []validate.ErrorArgument{{Name: "n", Expr: "obj.name"}}

	out := e.EvalErrorArguments(obj, args, scope)
	require.Len(t, out, 1)
	assert.True(t, out[0].Evaluated)
	assert.Equal(t, "Widget", out[0].Value)
}
