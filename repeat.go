package conductor

import "time"

// DelayFunc computes the pause before retry attempt n (1-based).
type DelayFunc func(attempt int) time.Duration

// defaultDelay is a small exponential backoff: 50ms, 100ms, 200ms, ...
func defaultDelay(attempt int) time.Duration {
	d := 50 * time.Millisecond
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// sleepFn pauses between attempts. A variable so tests can stub the
// delay out.
//
//nolint:gochecknoglobals // Required for test stubbing
var sleepFn = time.Sleep

// Repeator decides whether a failed work body should be re-attempted in
// place. It reads the definition's Retries and RetryOn settings, tracks
// the attempt count in the Result's metadata, and retains the last
// error it saw for the caller.
type Repeator struct {
	delay   DelayFunc
	lastErr error
}

// RepeatorOption configures a Repeator.
type RepeatorOption func(*Repeator)

// WithDelay replaces the backoff between attempts.
func WithDelay(fn DelayFunc) RepeatorOption {
	return func(r *Repeator) { r.delay = fn }
}

// NewRepeator creates a retry coordinator with exponential backoff.
func NewRepeator(opts ...RepeatorOption) *Repeator {
	r := &Repeator{delay: defaultDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LastError returns the most recent error ShouldRetry evaluated.
func (r *Repeator) LastError() error { return r.lastErr }

// ShouldRetry reports whether the work body should run again after err.
// It returns false when retries are disabled, exhausted, or err does
// not match the definition's RetryOn matchers. Faults are never
// retried: an intentional halt is not a transient failure.
//
// On true it has already incremented the Result's retry counter,
// slept the configured delay, and logged the attempt.
func (r *Repeator) ShouldRetry(e *Execution, err error) bool {
	r.lastErr = err
	if err == nil || IsFault(err) {
		return false
	}

	s := e.Settings()
	if s.Retries <= 0 {
		return false
	}

	attempts := retryCount(e.Result())
	if attempts >= s.Retries {
		return false
	}

	if !matchesAny(s.RetryOn, err) {
		return false
	}

	// Side channel for observability and the exhaustion check above.
	if serr := e.Result().SetMetadata(MetaRetries, attempts+1); serr != nil {
		return false
	}

	wait := r.delay(attempts + 1)
	log := e.Logger()
	log.Warn().
		Err(err).
		Int("attempt", attempts+1).
		Int("max_retries", s.Retries).
		Dur("delay", wait).
		Msg("retrying work")
	sleepFn(wait)

	return true
}

// retryCount reads the attempt counter from Result metadata.
func retryCount(res *Result) int {
	n, _ := res.Metadata()[MetaRetries].(int)
	return n
}

// matchesAny checks err against the matchers; an empty list matches any
// error.
func matchesAny(matchers []ErrorMatcher, err error) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, match := range matchers {
		if match != nil && match(err) {
			return true
		}
	}
	return false
}
