package validate

// deferredQueue is the per-rule occurrence list plus the rule itself,
// so flushDeferred doesn't need a second lookup back into the profile.
// Occurrences are recorded as ObjectWithContext pairs (§3's data model).
type deferredQueue struct {
	rule        *Rule
	occurrences []ObjectWithContext
}

// dispatcher implements §4.5: for each visited object it looks up
// matching rules via the ruleIndex, evaluates immediate ones now, and
// queues deferred ones by rule id in first-seen order. flushDeferred
// drains every queue once, after the traversal stack is empty.
//
// Grounded on the teacher's evalRuleSlice (iterate a rule slice,
// evaluate, report), simplified to drop the stop-on-first-result
// options this spec doesn't have.
type dispatcher struct {
	index     *ruleIndex
	sandbox   Sandbox
	scope     *Scope
	collector *resultCollector

	deferredOrder []string
	deferred      map[string]*deferredQueue
}

func newDispatcher(index *ruleIndex, sandbox Sandbox, scope *Scope, collector *resultCollector) *dispatcher {
	return &dispatcher{
		index:     index,
		sandbox:   sandbox,
		scope:     scope,
		collector: collector,
		deferred:  make(map[string]*deferredQueue),
	}
}

// dispatch processes every rule matching object (direct type and
// super-types, §4.5) for the given context path.
func (d *dispatcher) dispatch(object Object, contextPath string) {
	for _, rule := range d.index.rulesFor(object) {
		d.process(rule, object, contextPath)
	}
}

func (d *dispatcher) process(rule *Rule, object Object, contextPath string) {
	if rule.Deferred {
		d.enqueue(rule, object, contextPath)
		return
	}
	passed := d.sandbox.EvalPredicate(object, rule, d.scope)
	d.collector.report(reportInput{
		passed:        passed,
		contextPath:   contextPath,
		objectContext: object.Context(),
		rule:          rule,
		object:        object,
		sandbox:       d.sandbox,
		scope:         d.scope,
	})
}

func (d *dispatcher) enqueue(rule *Rule, object Object, contextPath string) {
	q, seen := d.deferred[rule.RuleID]
	if !seen {
		q = &deferredQueue{rule: rule}
		d.deferred[rule.RuleID] = q
		d.deferredOrder = append(d.deferredOrder, rule.RuleID)
	}
	q.occurrences = append(q.occurrences, ObjectWithContext{Object: object, Context: contextPath})
}

// flushDeferred evaluates every queued deferred occurrence, in the
// order rules were first encountered, preserving per-rule insertion
// order of occurrences (§4.5: "iterate deferred_rules entries in
// map-iteration order ... for each, evaluate ... for every queued
// occurrence").
func (d *dispatcher) flushDeferred() {
	for _, ruleID := range d.deferredOrder {
		q := d.deferred[ruleID]
		for _, occ := range q.occurrences {
			passed := d.sandbox.EvalPredicate(occ.Object, q.rule, d.scope)
			d.collector.report(reportInput{
				passed:        passed,
				contextPath:   occ.Context,
				objectContext: occ.Object.Context(),
				rule:          q.rule,
				object:        occ.Object,
				sandbox:       d.sandbox,
				scope:         d.scope,
			})
		}
	}
}
