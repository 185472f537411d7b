package validate

import "go.uber.org/zap"

const (
	// maxChecksNumber bounds the total size of the assertions sequence
	// regardless of per-rule caps (§4.6).
	maxChecksNumber = 10_000

	// defaultMaxDisplayedFailedChecks is the out-of-the-box per-rule
	// display cap.
	defaultMaxDisplayedFailedChecks = 100

	// unlimitedDisplayedFailedChecks disables the per-rule display cap.
	unlimitedDisplayedFailedChecks = -1
)

// Options configure an Engine. Use the Option constructors below to
// build a set of Options, following the documented defaults (§6): a 100 per-rule
// display cap, passed-check logging off, error-message rendering off,
// progress logging off.
type Options struct {
	MaxDisplayedFailedChecks int
	LogPassedChecks          bool
	ShowErrorMessages        bool
	ShowProgress             bool
	Logger                   *zap.Logger
}

// Option mutates an Options value. It follows the functional-options
// idiom used throughout this codebase for engine configuration.
type Option func(*Options)

// MaxDisplayedFailedChecks caps the number of FAILED assertions
// recorded per rule-id; -1 means unlimited.
func MaxDisplayedFailedChecks(n int) Option {
	return func(o *Options) { o.MaxDisplayedFailedChecks = n }
}

// LogPassedChecks enables recording a PASSED assertion for every
// passing predicate evaluation, subject to the global cap.
func LogPassedChecks(enabled bool) Option {
	return func(o *Options) { o.LogPassedChecks = enabled }
}

// ShowErrorMessages enables evaluating a failing rule's error arguments
// and rendering its error template into TestAssertion.ErrorMessage.
func ShowErrorMessages(enabled bool) Option {
	return func(o *Options) { o.ShowErrorMessages = enabled }
}

// ShowProgress enables logging one progress summary (the
// Engine.ProgressString counters) through the configured Logger when
// validation finishes. Nothing is logged while the traversal runs.
func ShowProgress(enabled bool) Option {
	return func(o *Options) { o.ShowProgress = enabled }
}

// WithLogger supplies a *zap.Logger for traversal faults, sandbox
// ExitScope failures and (if ShowProgress is set) the final progress
// summary. Cancellation is not logged. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

func applyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
