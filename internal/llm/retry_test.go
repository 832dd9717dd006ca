package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyService struct {
	failures int
	calls    int
}

func (s *flakyService) Complete(req Request) (*Response, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("transient")
	}
	return &Response{StopReason: StopReasonEndTurn, Content: []ContentBlock{{Type: BlockText, Text: "ok"}}}, nil
}

func instantBackoff(int) time.Duration { return 0 }

func TestWithRetryRecovers(t *testing.T) {
	svc := &flakyService{failures: 2}
	wrapped := WithRetry(svc, RetryPolicy{MaxAttempts: 3, Backoff: instantBackoff})

	resp, err := wrapped.Complete(Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, 3, svc.calls)
}

func TestWithRetryExhausted(t *testing.T) {
	svc := &flakyService{failures: 10}
	wrapped := WithRetry(svc, RetryPolicy{MaxAttempts: 3, Backoff: instantBackoff})

	_, err := wrapped.Complete(Request{})
	assert.Error(t, err)
	assert.Equal(t, 3, svc.calls)
}

func TestWithRetrySingleAttemptUnwrapped(t *testing.T) {
	svc := &flakyService{}
	assert.Same(t, CompletionService(svc), WithRetry(svc, RetryPolicy{MaxAttempts: 1}))
	assert.Same(t, CompletionService(svc), WithRetry(svc, RetryPolicy{}))
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, b(0))
	assert.Equal(t, 200*time.Millisecond, b(1))
	assert.Equal(t, 400*time.Millisecond, b(2))
	assert.Equal(t, time.Second, b(10), "capped at max")
	assert.Equal(t, 100*time.Millisecond, b(-1))
}

func TestResponseText(t *testing.T) {
	resp := &Response{Content: []ContentBlock{
		{Type: BlockToolUse, Name: "search_course_content"},
		{Type: BlockText, Text: "first"},
		{Type: BlockText, Text: "second"},
	}}
	assert.Equal(t, "first", resp.Text(), "first text block wins")

	empty := &Response{}
	assert.Equal(t, "", empty.Text())
}
