package validate

// mockSandbox is a hand-rolled Sandbox test double, in the style of the
// teacher's mock_test.go mockEvaluator: it lets tests drive predicate
// and variable-update outcomes directly, without depending on a real
// expression language.
type mockSandbox struct {
	// predicates maps a rule's Expr string to the bool it should
	// return; a missing entry evaluates to false (mirrors §4.1's
	// "any evaluation error is treated as false").
	predicates map[string]bool

	// updates maps a variable's Update string to the value it should
	// produce each time it is evaluated.
	updates map[string]func(prev any) any

	exitCalled bool
}

func newMockSandbox() *mockSandbox {
	return &mockSandbox{
		predicates: make(map[string]bool),
		updates:    make(map[string]func(prev any) any),
	}
}

func (m *mockSandbox) Initialise() (*Scope, error) {
	return NewScope(), nil
}

func (m *mockSandbox) EvalExpression(source string, scope *Scope) (any, error) {
	return source, nil
}

func (m *mockSandbox) EvalPredicate(object Object, rule *Rule, scope *Scope) bool {
	return m.predicates[rule.Expr]
}

func (m *mockSandbox) EvalVariableUpdate(variable *Variable, object Object, scope *Scope) (any, error) {
	fn, ok := m.updates[variable.Update]
	if !ok {
		return nil, errUpdateNotRegistered
	}
	prev, _ := scope.Get(variable.Name)
	return fn(prev), nil
}

var errUpdateNotRegistered = &mockUpdateError{}

type mockUpdateError struct{}

func (*mockUpdateError) Error() string { return "mock: no update function registered" }

func (m *mockSandbox) EvalErrorArguments(object Object, arguments []ErrorArgument, scope *Scope) []ErrorArgument {
	out := make([]ErrorArgument, len(arguments))
	for i, a := range arguments {
		out[i] = a
		out[i].Value = a.Name + "-value"
		out[i].Evaluated = true
	}
	return out
}

func (m *mockSandbox) ExitScope(scope *Scope) error {
	m.exitCalled = true
	return nil
}

// mockProfile is a minimal Profile test double built directly from
// slices, mirroring memprofile.New but kept package-local so the root
// package's tests don't depend on a subpackage.
type mockProfile struct {
	variables       []*Variable
	variablesByType map[string][]*Variable
	rulesByType     map[string][]*Rule
}

func newMockProfile(variables []*Variable, rules []*Rule) *mockProfile {
	p := &mockProfile{
		variables:       variables,
		variablesByType: make(map[string][]*Variable),
		rulesByType:     make(map[string][]*Rule),
	}
	for _, v := range variables {
		p.variablesByType[v.TargetType] = append(p.variablesByType[v.TargetType], v)
	}
	for _, r := range rules {
		p.rulesByType[r.TargetType] = append(p.rulesByType[r.TargetType], r)
	}
	return p
}

func (p *mockProfile) Variables() []*Variable { return p.variables }

func (p *mockProfile) VariablesByObjectType(objectType string) []*Variable {
	return p.variablesByType[objectType]
}

func (p *mockProfile) RulesByObjectType(objectType string) []*Rule {
	return p.rulesByType[objectType]
}

// mockObject is a minimal Object test double, for tests that need more
// control than memgraph.Node's fluent builder offers (e.g. deliberately
// nil Links/children to exercise StructuralFault).
type mockObject struct {
	objectType   string
	superTypes   []string
	id           string
	hasID        bool
	context      string
	extraContext string
	hasExtra     bool
	attributes   map[string]any
	linkNames    []string
	children     map[string][]Object
}

func (o *mockObject) ObjectType() string                 { return o.objectType }
func (o *mockObject) SuperTypes() []string                { return o.superTypes }
func (o *mockObject) ID() (string, bool)                  { return o.id, o.hasID }
func (o *mockObject) Context() string                     { return o.context }
func (o *mockObject) ExtraContext() (string, bool)        { return o.extraContext, o.hasExtra }
func (o *mockObject) Links() []string                     { return o.linkNames }
func (o *mockObject) Attributes() map[string]any          { return o.attributes }

func (o *mockObject) LinkedObjects(link string) ([]Object, error) {
	return o.children[link], nil
}
