package llm

import "time"

// BackoffFunc maps a zero-based attempt number to a sleep duration.
type BackoffFunc func(attempt int) time.Duration

// RetryPolicy bounds transient-failure retries around a completion service.
// This is independent of the orchestrator's tool-round limit: the policy
// retries failed transport calls, the round limit bounds successful ones.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// ExponentialBackoff doubles base per attempt, capped at max.
func ExponentialBackoff(base, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		d := base << attempt
		if d > max {
			d = max
		}
		return d
	}
}

type retrying struct {
	inner  CompletionService
	policy RetryPolicy
}

// WithRetry wraps svc so every Complete call is attempted up to
// policy.MaxAttempts times, sleeping policy.Backoff between attempts.
func WithRetry(svc CompletionService, policy RetryPolicy) CompletionService {
	if policy.MaxAttempts <= 1 {
		return svc
	}
	if policy.Backoff == nil {
		policy.Backoff = ExponentialBackoff(200*time.Millisecond, 5*time.Second)
	}
	return &retrying{inner: svc, policy: policy}
}

func (r *retrying) Complete(req Request) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		resp, err := r.inner.Complete(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < r.policy.MaxAttempts-1 {
			time.Sleep(r.policy.Backoff(attempt))
		}
	}
	return nil, lastErr
}
