package conductor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Next continues the middleware chain. The final Next invokes the work
// body itself.
type Next func(ctx context.Context, e *Execution) error

// Middleware wraps an execution's work body. A middleware may
// short-circuit by not calling next, and may transform next's error.
type Middleware func(ctx context.Context, e *Execution, next Next) error

// MiddlewareChain is an append-only ordered list of middleware. Unlike
// the hook registry there is no de-duplication: order matters and the
// same middleware may wrap twice.
type MiddlewareChain struct {
	stack []Middleware
}

// NewMiddlewareChain creates an empty chain.
func NewMiddlewareChain() *MiddlewareChain {
	return &MiddlewareChain{}
}

// Use appends middleware to the chain.
func (m *MiddlewareChain) Use(mw ...Middleware) {
	m.stack = append(m.stack, mw...)
}

// Len returns the number of registered middleware.
func (m *MiddlewareChain) Len() int { return len(m.stack) }

// run invokes the chain around the final work body: stack[0] wraps
// stack[1] wraps ... wraps final.
func (m *MiddlewareChain) run(ctx context.Context, e *Execution, final Next) error {
	next := final
	for i := len(m.stack) - 1; i >= 0; i-- {
		mw := m.stack[i]
		inner := next
		next = func(ctx context.Context, e *Execution) error {
			return mw(ctx, e, inner)
		}
	}
	return next(ctx, e)
}

// Timeout returns middleware that races the wrapped execution against a
// deadline. Expiry is converted into a failed Result via a Fault rather
// than crashing the run.
//
// Work bodies wrapped by Timeout MUST observe ctx.Done and return
// promptly once the deadline passes. On expiry the work goroutine is
// abandoned, not killed; a body that ignores cancellation and keeps
// writing to the shared Context races the run's finalization.
func Timeout(limit time.Duration) Middleware {
	return func(ctx context.Context, e *Execution, next Next) error {
		tctx, cancel := context.WithTimeout(ctx, limit)
		defer cancel()

		g, gctx := errgroup.WithContext(tctx)
		g.Go(func() error {
			return next(gctx, e)
		})

		done := make(chan error, 1)
		go func() {
			done <- g.Wait()
		}()

		select {
		case err := <-done:
			return err
		case <-tctx.Done():
			if md := e.Result().SetMetadata(MetaOriginalError, context.Cause(tctx)); md != nil {
				return md
			}
			return e.Fail(fmt.Sprintf("%v after %s", ErrTimeout, limit))
		}
	}
}

// Correlate returns middleware that stamps the given fields onto the
// context logger for everything downstream of it, work body included.
func Correlate(fields map[string]string) Middleware {
	return func(ctx context.Context, e *Execution, next Next) error {
		logCtx := zerolog.Ctx(ctx).With()
		for k, v := range fields {
			logCtx = logCtx.Str(k, v)
		}
		logger := logCtx.Logger()
		return next(logger.WithContext(ctx), e)
	}
}

// Instrument returns middleware that logs the wrapped execution's start
// and end with its duration.
func Instrument() Middleware {
	return func(ctx context.Context, e *Execution, next Next) error {
		log := zerolog.Ctx(ctx)
		log.Debug().
			Str("task_id", e.ID()).
			Str("class", e.Definition().Name()).
			Msg("executing work")

		start := time.Now()
		err := next(ctx, e)
		elapsed := time.Since(start)

		evt := log.Debug()
		if err != nil {
			evt = log.Warn().Err(err)
		}
		evt.
			Str("task_id", e.ID()).
			Str("class", e.Definition().Name()).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("work finished")
		return err
	}
}
