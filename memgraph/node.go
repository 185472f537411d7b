// Package memgraph provides a reference, in-memory implementation of
// validate.Object for tests, examples, and local profile dry-runs. The
// teacher authors its rule trees as Go struct literals rather than
// files; this package follows that same "build the graph as Go values"
// convention, for Objects instead of Rules.
package memgraph

import (
	"github.com/google/uuid"

	"github.com/profileval/engine"
)

var _ validate.Object = (*Node)(nil)

// Node is a typed graph node: an object type, optional super-types, an
// optional stable id, a self-label context, optional extra context,
// attributes, and an ordered set of named links to children.
type Node struct {
	objectType string
	superTypes []string

	id    string
	hasID bool

	context      string
	extraContext string
	hasExtra     bool

	attributes map[string]any

	linkOrder []string
	links     map[string][]*Node
}

// New returns a leaf Node of objectType, using context as its self-label.
func New(objectType, context string) *Node {
	return &Node{
		objectType: objectType,
		context:    context,
		attributes: make(map[string]any),
		linkOrder:  []string{},
		links:      make(map[string][]*Node),
	}
}

// WithID assigns a stable id, making this Node deduplicable (§3 I2).
func (n *Node) WithID(id string) *Node {
	n.id = id
	n.hasID = true
	return n
}

// WithGeneratedID assigns a fresh random id via github.com/google/uuid.
func (n *Node) WithGeneratedID() *Node {
	return n.WithID(uuid.NewString())
}

// WithSuperTypes declares additional type names this Node matches for
// rule and variable dispatch.
func (n *Node) WithSuperTypes(superTypes ...string) *Node {
	n.superTypes = append(n.superTypes, superTypes...)
	return n
}

// WithExtraContext attaches an extra-context suffix, appended to the
// traversal context path when this Node is visited as a child.
func (n *Node) WithExtraContext(extra string) *Node {
	n.extraContext = extra
	n.hasExtra = true
	return n
}

// WithAttribute sets one business-data attribute, exposed to rule
// predicates under this name.
func (n *Node) WithAttribute(name string, value any) *Node {
	n.attributes[name] = value
	return n
}

// AddChild appends child as the next Object under link, declaring link
// (in first-use order) if this is its first use.
func (n *Node) AddChild(link string, child *Node) *Node {
	if _, ok := n.links[link]; !ok {
		n.linkOrder = append(n.linkOrder, link)
	}
	n.links[link] = append(n.links[link], child)
	return n
}

// AddLink declares a link with no children, exercising the "may be
// empty" case of §3's child-sequence definition.
func (n *Node) AddLink(link string) *Node {
	if _, ok := n.links[link]; !ok {
		n.linkOrder = append(n.linkOrder, link)
		n.links[link] = []*Node{}
	}
	return n
}

func (n *Node) ObjectType() string   { return n.objectType }
func (n *Node) SuperTypes() []string { return n.superTypes }
func (n *Node) ID() (string, bool)   { return n.id, n.hasID }
func (n *Node) Context() string      { return n.context }

func (n *Node) ExtraContext() (string, bool) { return n.extraContext, n.hasExtra }

func (n *Node) Links() []string { return n.linkOrder }

func (n *Node) LinkedObjects(link string) ([]validate.Object, error) {
	children := n.links[link]
	out := make([]validate.Object, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out, nil
}

func (n *Node) Attributes() map[string]any { return n.attributes }
