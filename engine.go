package validate

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// engineVersion identifies this implementation in ComponentDetails.
const engineVersion = "1.0.0"

// ComponentDetails is identity metadata for an Engine, returned by
// Details().
type ComponentDetails struct {
	Name    string
	Version string
}

// Engine validates object graphs against a Profile, using a Sandbox to
// evaluate rule predicates and variable updates. Create one with New,
// configure it with Option values, then call Validate once per document
// (an Engine may be reused across multiple Validate calls against the
// same or different roots, as long as each call is allowed to finish, or
// Cancel + a fresh Engine is used, before starting the next).
type Engine struct {
	profile Profile
	sandbox Sandbox
	opts    Options

	abort        atomic.Bool
	jobEndStatus atomic.Value

	processed atomic.Int64
	toVisit   atomic.Int64
	checks    atomic.Int64
	failed    atomic.Int64
}

// New creates an Engine bound to profile and sandbox, applying opts over
// the documented defaults: a 100 per-rule display cap, passed-check
// logging off, error-message rendering off, progress logging off, and a
// no-op logger.
func New(profile Profile, sandbox Sandbox, opts ...Option) *Engine {
	o := Options{
		MaxDisplayedFailedChecks: defaultMaxDisplayedFailedChecks,
		Logger:                   zap.NewNop(),
	}
	applyOptions(&o, opts...)

	e := &Engine{profile: profile, sandbox: sandbox, opts: o}
	e.jobEndStatus.Store(StatusNormal)
	return e
}

// Profile returns the Profile the Engine was created with.
func (e *Engine) Profile() Profile { return e.profile }

// Details returns identity metadata for this Engine implementation.
func (e *Engine) Details() ComponentDetails {
	return ComponentDetails{Name: "validate.Engine", Version: engineVersion}
}

// Close releases long-lived resources. The current Sandbox
// implementations hold no resources beyond a single Scope, which is
// already released at the end of Validate; Close exists so callers with
// a Sandbox that does hold such resources (a pooled connection, for
// instance) have somewhere to release them.
func (e *Engine) Close() error { return nil }

// Cancel requests that the current (or next) Validate call stop early
// with the given end status. Safe to call from any goroutine at any
// time (§5); published via atomic.Bool/atomic.Value rather than a mutex
// so a concurrent caller never blocks on the traversal goroutine,
// mirroring the teacher's lock-free published-state idiom.
func (e *Engine) Cancel(status JobEndStatus) {
	e.jobEndStatus.Store(status)
	e.abort.Store(true)
}

// ProgressString returns a human-readable snapshot of the traversal
// counters. Safe to call concurrently with Validate.
func (e *Engine) ProgressString() string {
	return fmt.Sprintf(
		"processed=%d to_visit=%d checks=%d failed=%d",
		e.processed.Load(), e.toVisit.Load(), e.checks.Load(), e.failed.Load(),
	)
}

// Validate runs a full traversal of root and returns the resulting
// report. A non-nil error means the run aborted before a well-formed
// partial result could be produced — a StructuralFault, a ParserFault
// from the parser collaborator, a Sandbox initialisation failure, or a
// variable default expression that failed to evaluate (§7); use
// errors.As to recover the underlying cause.
func (e *Engine) Validate(root Object) (*ValidationResult, error) {
	if e.abort.Load() {
		return e.cancelledBeforeStart(), nil
	}

	e.processed.Store(0)
	e.toVisit.Store(0)
	e.checks.Store(0)
	e.failed.Store(0)

	scope, err := e.sandbox.Initialise()
	if err != nil {
		return nil, newValidationError(errors.Wrap(err, "initialising sandbox"))
	}
	defer func() {
		if err := e.sandbox.ExitScope(scope); err != nil {
			e.opts.Logger.Warn("sandbox exit_scope failed", zap.Error(err))
		}
	}()

	variables := newVariableStore(e.profile, e.sandbox, scope)
	if err := variables.initialise(); err != nil {
		return nil, newValidationError(err)
	}

	collector := newResultCollector(root.ObjectType(), &e.opts, &e.abort, &e.checks, &e.failed)
	index := newRuleIndex(e.profile)
	disp := newDispatcher(index, e.sandbox, scope, collector)

	t := newTraversal(root, disp, variables, &e.abort, &e.processed, &e.toVisit)
	if err := t.run(); err != nil {
		if e.opts.Logger != nil {
			e.opts.Logger.Error("traversal aborted", zap.Error(err))
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, newValidationError(err)
	}

	disp.flushDeferred()

	if e.opts.ShowProgress {
		e.opts.Logger.Info("validation finished", zap.String("progress", e.ProgressString()))
	}

	result := collector.finalise()
	result.JobEndStatus = e.jobEndStatus.Load().(JobEndStatus)
	return result, nil
}

// cancelledBeforeStart implements P6: if Cancel was called before
// Validate ran at all, the result is empty and trivially compliant.
func (e *Engine) cancelledBeforeStart() *ValidationResult {
	return &ValidationResult{
		IsCompliant:  true,
		FailedCounts: map[string]int{},
		JobEndStatus: e.jobEndStatus.Load().(JobEndStatus),
	}
}
