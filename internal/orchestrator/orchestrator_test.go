package orchestrator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursechat/internal/llm"
)

// scriptedService replays canned responses and records every request.
type scriptedService struct {
	responses []*llm.Response
	requests  []llm.Request
	err       error
}

func (s *scriptedService) Complete(req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

type recordingDispatcher struct {
	calls  []string
	result string
	err    error
}

func (d *recordingDispatcher) Dispatch(name string, args map[string]any) (string, error) {
	d.calls = append(d.calls, name)
	return d.result, d.err
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		StopReason: llm.StopReasonEndTurn,
		Content:    []llm.ContentBlock{{Type: llm.BlockText, Text: text}},
	}
}

func toolResponse(id, name string) *llm.Response {
	return &llm.Response{
		StopReason: llm.StopReasonToolUse,
		Content: []llm.ContentBlock{
			{Type: llm.BlockText, Text: "looking that up"},
			{Type: llm.BlockToolUse, ID: id, Name: name, Input: map[string]any{"query": "q"}},
		},
	}
}

var searchDefs = []llm.ToolDefinition{{Name: "search_course_content"}}

func TestRespondDirectAnswer(t *testing.T) {
	svc := &scriptedService{responses: []*llm.Response{textResponse("direct answer")}}
	d := &recordingDispatcher{}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, d)
	require.NoError(t, err)
	assert.Equal(t, "direct answer", out)
	assert.Empty(t, d.calls)
	require.Len(t, svc.requests, 1)
	assert.Equal(t, searchDefs, svc.requests[0].Tools)
}

func TestRespondSingleToolRound(t *testing.T) {
	svc := &scriptedService{responses: []*llm.Response{
		toolResponse("t1", "search_course_content"),
		textResponse("answer from results"),
	}}
	d := &recordingDispatcher{result: "[Course - Lesson 1]\ncontent"}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, d)
	require.NoError(t, err)
	assert.Equal(t, "answer from results", out)
	assert.Equal(t, []string{"search_course_content"}, d.calls)

	// second request carries assistant tool_use then user tool_result
	require.Len(t, svc.requests, 2)
	msgs := svc.requests[1].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "user", msgs[2].Role)
	require.Len(t, msgs[2].Content, 1)
	assert.Equal(t, llm.BlockToolResult, msgs[2].Content[0].Type)
	assert.Equal(t, "t1", msgs[2].Content[0].ToolUseID)
	assert.Equal(t, "[Course - Lesson 1]\ncontent", msgs[2].Content[0].Content)
}

func TestRespondRoundLimitForcesTerminalAnswer(t *testing.T) {
	// The model asks for tools on every turn; after two rounds the final call
	// goes out with tools disabled and its text is the answer.
	svc := &scriptedService{responses: []*llm.Response{
		toolResponse("t1", "search_course_content"),
		toolResponse("t2", "search_course_content"),
		textResponse("forced final"),
	}}
	d := &recordingDispatcher{result: "some results"}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, d)
	require.NoError(t, err)
	assert.Equal(t, "forced final", out)
	assert.Len(t, d.calls, 2)

	require.Len(t, svc.requests, 3)
	assert.NotNil(t, svc.requests[0].Tools)
	assert.NotNil(t, svc.requests[1].Tools)
	assert.Nil(t, svc.requests[2].Tools, "terminal call must not offer tools")
}

func TestRespondToolFailureEndsToolPhase(t *testing.T) {
	svc := &scriptedService{responses: []*llm.Response{
		toolResponse("t1", "search_course_content"),
		textResponse("answer despite failure"),
	}}
	d := &recordingDispatcher{err: errors.New("index unavailable")}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, d)
	require.NoError(t, err, "tool failures must not abort the query")
	assert.Equal(t, "answer despite failure", out)

	// exactly two completions: the tool request and the terminal call
	require.Len(t, svc.requests, 2)
	assert.Nil(t, svc.requests[1].Tools)
	msgs := svc.requests[1].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "Error: Tool execution failed - index unavailable", msgs[2].Content[0].Content)
}

func TestRespondToolUseWithoutDispatcher(t *testing.T) {
	svc := &scriptedService{responses: []*llm.Response{toolResponse("t1", "search_course_content")}}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, nil)
	require.NoError(t, err)
	assert.Equal(t, "looking that up", out)
	assert.Len(t, svc.requests, 1)
}

func TestRespondCompletionError(t *testing.T) {
	svc := &scriptedService{err: errors.New("api down")}
	_, err := New(svc, 2).Respond("question", "system", nil, nil)
	assert.Error(t, err)
}

func TestRespondMultipleToolCallsInOneRound(t *testing.T) {
	multi := &llm.Response{
		StopReason: llm.StopReasonToolUse,
		Content: []llm.ContentBlock{
			{Type: llm.BlockToolUse, ID: "a", Name: "search_course_content", Input: map[string]any{}},
			{Type: llm.BlockToolUse, ID: "b", Name: "get_course_outline", Input: map[string]any{}},
		},
	}
	svc := &scriptedService{responses: []*llm.Response{multi, textResponse("combined")}}
	d := &recordingDispatcher{result: "ok"}

	out, err := New(svc, 2).Respond("question", "system", searchDefs, d)
	require.NoError(t, err)
	assert.Equal(t, "combined", out)
	assert.Equal(t, []string{"search_course_content", "get_course_outline"}, d.calls)

	results := svc.requests[1].Messages[2].Content
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ToolUseID)
	assert.Equal(t, "b", results[1].ToolUseID)
}

func TestNewDefaultsRounds(t *testing.T) {
	o := New(&scriptedService{responses: []*llm.Response{textResponse("x")}}, 0)
	assert.Equal(t, 2, o.maxRounds)
}
