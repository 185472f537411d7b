package validate

import (
	"fmt"
	"sync/atomic"
)

// stackFrame is one entry of the traversal stack: an Object paired with
// the context-path string it was pushed under.
type stackFrame struct {
	object  Object
	context string
}

// traversal implements the depth-first walk of §4.4: an explicit stack
// of (object, context) pairs, an id-based visited set for cycle safety,
// and reverse-order pushes of links and children so the natural LIFO
// pop order matches declaration order.
//
// Grounded on the teacher's results.go Flat(), which already performs a
// reverse-sorted-then-reverse-iterated depth-first walk of a Result
// tree to yield deterministic, declaration-order output; the same
// reverse-push trick is applied here to the object graph.
type traversal struct {
	rootType string
	stack    []stackFrame
	visited  map[string]bool

	dispatcher *dispatcher
	variables  *variableStore
	abort      *atomic.Bool

	processed *atomic.Int64
	toVisit   *atomic.Int64
}

func newTraversal(root Object, dispatcher *dispatcher, variables *variableStore, abort *atomic.Bool, processed, toVisit *atomic.Int64) *traversal {
	t := &traversal{
		rootType:   root.ObjectType(),
		visited:    make(map[string]bool),
		dispatcher: dispatcher,
		variables:  variables,
		abort:      abort,
		processed:  processed,
		toVisit:    toVisit,
	}
	t.push(root, "root")
	return t
}

func (t *traversal) push(object Object, context string) {
	if id, ok := object.ID(); ok {
		t.visited[id] = true
	}
	t.stack = append(t.stack, stackFrame{object: object, context: context})
	t.toVisit.Store(int64(len(t.stack)))
}

// run drains the traversal stack, dispatching rules and updating
// variables for each popped object, then enumerating its children.
// Returns a non-nil error only for a fatal StructuralFault or
// ParserFault (§7); the abort flag is checked at the top of each step,
// per §5.
func (t *traversal) run() error {
	for len(t.stack) > 0 {
		if t.abort.Load() {
			return nil
		}

		n := len(t.stack) - 1
		frame := t.stack[n]
		t.stack = t.stack[:n]
		t.toVisit.Store(int64(len(t.stack)))

		t.dispatcher.dispatch(frame.object, frame.context)
		t.variables.update(frame.object)
		t.processed.Add(1)

		if err := t.pushChildren(frame); err != nil {
			return err
		}
	}
	return nil
}

// pushChildren enumerates frame's object's links in reverse order, and
// each link's children in reverse order, so popping the stack later
// visits them in declared order (§4.4's reverse-push trick).
func (t *traversal) pushChildren(frame stackFrame) error {
	links := frame.object.Links()
	if links == nil {
		return wrapStructuralFault(&StructuralFault{ContextPath: frame.context, Reason: "nil link-name list"})
	}

	for i := len(links) - 1; i >= 0; i-- {
		link := links[i]
		if link == "" {
			return wrapStructuralFault(&StructuralFault{ContextPath: frame.context, Reason: "empty link name"})
		}

		children, err := frame.object.LinkedObjects(link)
		if err != nil {
			return wrapParserFault(err, frame.context)
		}
		if children == nil {
			return wrapStructuralFault(&StructuralFault{ContextPath: frame.context, Reason: fmt.Sprintf("nil child list for link %q", link)})
		}

		for j := len(children) - 1; j >= 0; j-- {
			child := children[j]
			if child == nil {
				return wrapStructuralFault(&StructuralFault{ContextPath: frame.context, Reason: fmt.Sprintf("nil child at %s[%d]", link, j)})
			}

			childContext := fmt.Sprintf("%s/%s[%d]", frame.context, link, j)
			id, hasID := child.ID()
			if hasID {
				childContext += fmt.Sprintf("(%s)", id)
			}
			if extra, ok := child.ExtraContext(); ok {
				childContext += fmt.Sprintf("{%s}", extra)
			}

			if hasID && t.visited[id] {
				continue
			}
			t.push(child, childContext)
		}
	}
	return nil
}
