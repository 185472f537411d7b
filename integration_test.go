package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profileval/engine"
	"github.com/profileval/engine/cel"
	"github.com/profileval/engine/memgraph"
	"github.com/profileval/engine/memprofile"
)

// Scenario 6, end to end with the real CEL sandbox: a variable
// accumulates across three "T" objects and a deferred rule on the root
// observes its final value.
func TestIntegration_VariableAccumulation(t *testing.T) {
	countVar := &validate.Variable{Name: "count", TargetType: "T", Default: "0", Update: "count + 1"}
	deferredRule := &validate.Rule{
		RuleID: "count-is-3", TargetType: "Doc", Expr: "count == 3", Deferred: true,
	}
	profile := memprofile.New([]*validate.Variable{countVar}, []*validate.Rule{deferredRule})

	root := memgraph.New("Doc", "root doc")
	for i := 0; i < 3; i++ {
		root.AddChild("items", memgraph.New("T", "item"))
	}

	sandbox := cel.NewEvaluator(profile)
	engine := validate.New(profile, sandbox)

	result, err := engine.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsCompliant)
	assert.Equal(t, 1, result.TotalTests)
}

// Predicate over object attributes, and error-message rendering from
// evaluated argument expressions, using the real CEL sandbox.
func TestIntegration_AttributePredicateAndErrorMessage(t *testing.T) {
	rule := &validate.Rule{
		RuleID:        "positive-amount",
		TargetType:    "LineItem",
		Expr:          "obj.amount > 0",
		Description:   "amount must be positive",
		ErrorTemplate: "item %name% has amount %2",
		Arguments: []validate.ErrorArgument{
			{Name: "name", Expr: "obj.name"},
			{Name: "amount", Expr: "obj.amount"},
		},
	}
	profile := memprofile.New(nil, []*validate.Rule{rule})

	root := memgraph.New("Invoice", "invoice")
	root.AddChild("items", memgraph.New("LineItem", "bad item").
		WithAttribute("name", "Widget").
		WithAttribute("amount", -5.0))

	sandbox := cel.NewEvaluator(profile)
	engine := validate.New(profile, sandbox, validate.ShowErrorMessages(true))

	result, err := engine.Validate(root)
	require.NoError(t, err)
	assert.False(t, result.IsCompliant)
	require.Len(t, result.Assertions, 1)
	assert.Contains(t, result.Assertions[0].ErrorMessage, "Widget")
	assert.Contains(t, result.Assertions[0].ErrorMessage, "-5")
}

func TestIntegration_CycleViaID(t *testing.T) {
	b := memgraph.NewBuilder()
	a := b.Add("a", memgraph.New("A", "node a").WithID("a1"))
	bb := b.Add("b", memgraph.New("B", "node b"))
	b.Link("a", "next", "b")
	b.Link("b", "next", "a")
	_ = bb

	rule := &validate.Rule{RuleID: "on-a", TargetType: "A", Expr: "true"}
	profile := memprofile.New(nil, []*validate.Rule{rule})
	sandbox := cel.NewEvaluator(profile)
	engine := validate.New(profile, sandbox)

	result, err := engine.Validate(a)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalTests)
	assert.True(t, result.IsCompliant)
}
