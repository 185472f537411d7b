package validate

// Object is one node of the document's object graph. Implementations are
// supplied by the parser collaborator (see memgraph for a reference
// implementation); the engine treats every Object as read-only and never
// mutates the graph it walks.
//
// ObjectType and SuperTypes drive rule and variable dispatch (§4.2/§4.3
// of the design). ID, Context, ExtraContext and Links/LinkedObjects drive
// traversal bookkeeping (§4.4). Attributes exposes whatever business data
// the parser chooses to make available to rule predicates; the engine
// itself never inspects it, it is only forwarded to the Sandbox.
type Object interface {
	// ObjectType is the concrete type name used to look up matching rules
	// and variables.
	ObjectType() string

	// SuperTypes lists, in declaration order, the additional type names a
	// rule or variable may target to also match this object.
	SuperTypes() []string

	// ID returns a stable identifier and true if this object is
	// deduplicable. Objects without a stable ID may be visited more than
	// once if they are reachable by more than one path.
	ID() (id string, ok bool)

	// Context is the object's own self-label, a short human-readable
	// description used to identify it in a TestAssertion independent of
	// where it sits in the traversal.
	Context() string

	// ExtraContext optionally supplies a short suffix appended to the
	// traversal context path when this object is pushed as a child.
	ExtraContext() (extra string, ok bool)

	// Links lists the outgoing link names, in declaration order. A nil
	// slice is a structural fault.
	Links() []string

	// LinkedObjects returns the ordered children reachable through link,
	// which may materialise them lazily. A nil slice (as opposed to an
	// empty one) is a structural fault; an error is wrapped as a parser
	// fault.
	LinkedObjects(link string) ([]Object, error)

	// Attributes exposes the object's business data to rule and variable
	// expressions. The engine does not interpret these values itself.
	Attributes() map[string]any
}

// ObjectWithContext pairs an Object with the context-path string under
// which it was first visited. It is the unit queued for a deferred rule.
type ObjectWithContext struct {
	Object  Object
	Context string
}
