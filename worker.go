package conductor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/conductor/param"
)

// Worker drives one execution's full lifecycle: attribute validation,
// lifecycle hooks, the middleware-wrapped work body, retry, and
// finalization. It is the sole boundary that converts errors into
// Results; the Pipeline above it deals in Results only.
type Worker struct {
	logger   zerolog.Logger
	repeator *Repeator
	defaults Settings
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithRepeator replaces the retry coordinator.
func WithRepeator(r *Repeator) WorkerOption {
	return func(w *Worker) { w.repeator = r }
}

// WithDefaults sets the fallback settings applied to every execution:
// a definition field left at its zero value picks up the default.
// Build the Settings from a loaded configuration with
// config.Config.Settings, or hand-roll them.
func WithDefaults(defaults Settings) WorkerOption {
	return func(w *Worker) { w.defaults = defaults }
}

// NewWorker creates a Worker logging through the given logger.
func NewWorker(logger zerolog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{logger: logger, repeator: NewRepeator()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// defaultWorker backs the package-level Execute/ExecuteStrict helpers.
//
//nolint:gochecknoglobals // Convenience entry point with a no-op logger
var defaultWorker = NewWorker(zerolog.Nop())

// Execute runs a definition through a shared default Worker. See
// Worker.Execute.
func Execute(ctx context.Context, def Definition, input any) *Result {
	return defaultWorker.Execute(ctx, def, input)
}

// ExecuteStrict runs a definition through a shared default Worker. See
// Worker.ExecuteStrict.
func ExecuteStrict(ctx context.Context, def Definition, input any) (*Result, error) {
	return defaultWorker.ExecuteStrict(ctx, def, input)
}

// Execute runs a root-level execution in non-strict mode: validation
// failures, intentional skip/fail faults, and unhandled errors are all
// captured into a terminal Result. The call always returns a Result;
// inspect its status.
//
// input may be nil, a map[string]any, or an existing *Context. Anything
// else is a programmer error and panics with ErrUnsupportedInput.
func (w *Worker) Execute(ctx context.Context, def Definition, input any) *Result {
	res, _ := w.execute(ctx, def, input, false)
	return res
}

// ExecuteStrict runs a root-level execution in strict mode: the same
// terminal Result is produced, but the underlying error is also
// returned when the caller opted in. Faults re-raise only when the
// outcome matches the settings breakpoints (Breakpoints, falling back
// to TaskBreakpoints, defaulting to none); validation failures and
// unhandled errors always re-raise. The Chain is cleared before the
// error returns.
func (w *Worker) ExecuteStrict(ctx context.Context, def Definition, input any) (*Result, error) {
	return w.execute(ctx, def, input, true)
}

func (w *Worker) execute(ctx context.Context, def Definition, input any, strict bool) (*Result, error) {
	bag, err := contextFrom(input)
	if err != nil {
		panic(err)
	}

	e := newExecution(w, def, bag, newChain())
	runErr := w.run(ctx, e)
	w.notify(e)
	w.finalize(e)

	if !strict || runErr == nil {
		return e.result, nil
	}
	return e.result, w.strictError(e, runErr)
}

// executeChild runs a nested execution against the parent's Context and
// Chain. Always non-strict: the Pipeline inspects the returned Result's
// status rather than catching errors.
func (w *Worker) executeChild(ctx context.Context, def Definition, parent *Execution) *Result {
	e := newExecution(w, def, parent.bag, parent.chain)
	_ = w.run(ctx, e)
	w.notify(e)
	w.finalize(e)
	return e.result
}

// run executes the pre-execution, execution, and retry phases, leaving
// the Result in a terminal state. The returned error is the original
// failure for strict-mode classification: a *param.ValidationError, a
// *Fault, or the unhandled work error.
func (w *Worker) run(ctx context.Context, e *Execution) error {
	def := e.def
	res := e.result
	hooks := def.Hooks()

	start := time.Now()
	defer func() { res.runtime = time.Since(start) }()

	res.transition(StateExecuting)

	if err := w.checkDeprecation(e); err != nil {
		_ = res.apply(StatusFailed, err.Error(), map[string]any{MetaOriginalError: err})
		res.transition(StateInterrupted)
		return err
	}

	_ = hooks.Invoke(BeforeValidation, e)

	if verr := param.Verify(def.Params(), e.bag); verr != nil {
		md := map[string]any{MetaOriginalError: verr}
		var v *param.ValidationError
		if errors.As(verr, &v) {
			md[MetaMessages] = v.Messages
		}
		_ = res.apply(StatusFailed, verr.Error(), md)
		res.transition(StateInterrupted)
		return verr
	}

	_ = hooks.Invoke(BeforeExecution, e)
	_ = hooks.Invoke(OnExecuting, e)

	workErr := def.Middleware().run(ctx, e, def.perform)
	for workErr != nil && w.repeator.ShouldRetry(e, workErr) {
		workErr = def.Middleware().run(ctx, e, def.perform)
	}

	switch {
	case workErr == nil:
		res.transition(StateComplete)
		return nil

	default:
		if fault, ok := AsFault(workErr); ok {
			if fault.Result() == res {
				_ = res.apply(fault.Status(), fault.Reason(), nil)
			} else {
				res.throwFrom(fault.Result())
			}
			res.transition(StateInterrupted)
			return workErr
		}

		s := e.Settings()
		if matchesExplicit(s.PropagateErrors, workErr) {
			_ = res.apply(StatusFailed, workErr.Error(), nil)
		} else {
			_ = res.apply(StatusFailed,
				fmt.Sprintf("[%T] %s", workErr, workErr.Error()),
				map[string]any{MetaOriginalError: workErr})
		}
		res.transition(StateInterrupted)
		return workErr
	}
}

// checkDeprecation applies the definition's deprecation mode.
func (w *Worker) checkDeprecation(e *Execution) error {
	switch e.Settings().Deprecated {
	case DeprecationWarn:
		e.logger.Warn().Msg("executing deprecated definition")
		return nil
	case DeprecationError:
		return fmt.Errorf("%w: %s", ErrDeprecated, e.def.Name())
	default:
		return nil
	}
}

// notify fires the post-execution hooks: state-specific, then
// on_executed, then status-specific, then the good/bad pair.
func (w *Worker) notify(e *Execution) {
	hooks := e.def.Hooks()
	res := e.result

	if res.Complete() {
		_ = hooks.Invoke(OnComplete, e)
	} else {
		_ = hooks.Invoke(OnInterrupted, e)
	}
	_ = hooks.Invoke(OnExecuted, e)

	switch res.Status() {
	case StatusSuccess:
		_ = hooks.Invoke(OnSuccess, e)
	case StatusSkipped:
		_ = hooks.Invoke(OnSkipped, e)
	case StatusFailed:
		_ = hooks.Invoke(OnFailed, e)
	}

	if res.Good() {
		_ = hooks.Invoke(OnGood, e)
	}
	if res.Bad() {
		_ = hooks.Invoke(OnBad, e)
	}
}

// finalize freezes the execution's state and logs the structured
// record. The root execution (index 0) additionally freezes the shared
// Context and clears the Chain — on every path, so no state leaks into
// the next unrelated run.
func (w *Worker) finalize(e *Execution) {
	root := e.result.index == 0
	if root {
		e.bag.freeze()
	}
	e.result.freeze()
	w.logResult(e)
	if root {
		e.chain.clear()
	}
}

// strictError classifies the run error for the raising caller.
func (w *Worker) strictError(e *Execution, runErr error) error {
	var verr *param.ValidationError
	if errors.As(runErr, &verr) {
		return runErr
	}

	if fault, ok := AsFault(runErr); ok {
		s := e.Settings()
		bps := normalizeBreakpoints(s.Breakpoints, s.TaskBreakpoints)
		if bps.matches(fault.Status()) {
			return runErr
		}
		return nil
	}

	return runErr
}

// loggerFor builds the logger every execution carries: the Worker's (or
// the settings override) annotated with the execution identity.
func (w *Worker) loggerFor(e *Execution) zerolog.Logger {
	base := w.logger
	if s := e.Settings(); s.Logger != nil {
		base = *s.Logger
	}
	return base.With().
		Str("task_id", e.id).
		Str("chain_id", e.chain.id).
		Str("class", e.def.Name()).
		Logger()
}

// logResult emits the one structured record per finalized Result.
func (w *Worker) logResult(e *Execution) {
	s := e.Settings()
	res := e.result

	logger := w.logger
	if s.Logger != nil {
		logger = *s.Logger
	}

	lvl := zerolog.InfoLevel
	if s.LogLevel != "" {
		if parsed, err := zerolog.ParseLevel(s.LogLevel); err == nil {
			lvl = parsed
		}
	}

	logger.WithLevel(lvl).
		Int("index", res.index).
		Str("chain_id", res.chainID).
		Str("type", res.defKind).
		Str("class", res.defName).
		Str("id", e.id).
		Strs("tags", s.Tags).
		Str("state", res.state.String()).
		Str("status", res.status.String()).
		Str("outcome", res.Outcome()).
		Interface("metadata", res.Metadata()).
		Dur("runtime", res.runtime).
		Str("origin", "conductor").
		Msg("execution finalized")
}

// matchesExplicit checks err against the matchers, with an empty list
// matching nothing. Compare matchesAny, where empty means everything:
// retries default to broad, propagation defaults to off.
func matchesExplicit(matchers []ErrorMatcher, err error) bool {
	if len(matchers) == 0 {
		return false
	}
	for _, match := range matchers {
		if match != nil && match(err) {
			return true
		}
	}
	return false
}
