package validate

import "sync/atomic"

// reportInput is what the dispatcher hands the collector for one
// evaluated (or deferred-and-now-evaluated) rule firing.
type reportInput struct {
	passed        bool
	contextPath   string
	objectContext string
	rule          *Rule
	object        Object
	sandbox       Sandbox
	scope         *Scope
}

// resultCollector implements the bounded accumulation policy of §4.6:
// per-rule and global display caps, an always-record-first-failure
// exception, and last-to-first template substitution for rendered error
// messages.
//
// Grounded on the teacher's results.go (assertion list shape,
// String()/Summary() go-pretty rendering carried over to result.go).
type resultCollector struct {
	opts     *Options
	rootType string
	abort    *atomic.Bool

	assertions   []TestAssertion
	failedCounts map[string]int
	isCompliant  bool
	testCounter  int

	checks *atomic.Int64
	failed *atomic.Int64
}

func newResultCollector(rootType string, opts *Options, abort *atomic.Bool, checks, failed *atomic.Int64) *resultCollector {
	return &resultCollector{
		opts:         opts,
		rootType:     rootType,
		abort:        abort,
		failedCounts: make(map[string]int),
		isCompliant:  true,
		checks:       checks,
		failed:       failed,
	}
}

func (c *resultCollector) report(in reportInput) {
	if c.abort.Load() {
		return
	}

	c.testCounter++
	c.checks.Add(1)
	if c.isCompliant {
		c.isCompliant = in.passed
	}

	if !in.passed {
		c.reportFailure(in)
		return
	}
	c.reportPass(in)
}

func (c *resultCollector) reportFailure(in reportInput) {
	c.failedCounts[in.rule.RuleID]++
	c.failed.Add(1)
	n := c.failedCounts[in.rule.RuleID]

	withinRuleCap := c.opts.MaxDisplayedFailedChecks == unlimitedDisplayedFailedChecks || n <= c.opts.MaxDisplayedFailedChecks
	withinGlobalCap := len(c.assertions) <= maxChecksNumber || n <= 1
	if !withinRuleCap || !withinGlobalCap {
		return
	}

	assertion := TestAssertion{
		Ordinal:       c.testCounter,
		RuleID:        in.rule.RuleID,
		Status:        Failed,
		Description:   in.rule.Description,
		Location:      Location{RootType: c.rootType, ContextPath: in.contextPath},
		ObjectContext: in.objectContext,
	}
	if c.opts.ShowErrorMessages {
		args := in.sandbox.EvalErrorArguments(in.object, in.rule.Arguments, in.scope)
		assertion.Arguments = args
		assertion.ErrorMessage = renderTemplate(in.rule.ErrorTemplate, args)
	}
	c.assertions = append(c.assertions, assertion)
}

func (c *resultCollector) reportPass(in reportInput) {
	if !c.opts.LogPassedChecks || len(c.assertions) > maxChecksNumber {
		return
	}
	c.assertions = append(c.assertions, TestAssertion{
		Ordinal:       c.testCounter,
		RuleID:        in.rule.RuleID,
		Status:        Passed,
		Description:   in.rule.Description,
		Location:      Location{RootType: c.rootType, ContextPath: in.contextPath},
		ObjectContext: in.objectContext,
	})
}

func (c *resultCollector) finalise() *ValidationResult {
	return &ValidationResult{
		IsCompliant:  c.isCompliant,
		Assertions:   c.assertions,
		FailedCounts: c.failedCounts,
		TotalTests:   c.testCounter,
	}
}
