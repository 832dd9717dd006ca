// Package llm defines the completion-service contract the orchestrator is
// written against. Message content is block-structured so a single turn can
// carry text, tool-use requests and tool results.
package llm

// Stop reasons reported by a completion.
const (
	StopReasonToolUse = "tool_use"
	StopReasonEndTurn = "end_turn"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one element of a message's content. Which fields are
// meaningful depends on Type; the json tags match the Anthropic wire shape.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Message is one conversational turn.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserText builds a plain-text user message.
func UserText(text string) Message {
	return Message{Role: "user", Content: []ContentBlock{{Type: BlockText, Text: text}}}
}

// SchemaProperty describes one tool parameter.
type SchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the JSON-schema object describing a tool's parameters.
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// ToolDefinition is the declarative schema the model uses to decide when and
// how to call a tool.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// Request is one completion call. Tools may be nil to forbid tool use.
type Request struct {
	Messages []Message
	System   string
	Tools    []ToolDefinition
}

// Response is the model's reply. When StopReason is tool_use, Content holds
// the ordered tool_use blocks (possibly alongside text).
type Response struct {
	StopReason string
	Content    []ContentBlock
}

// Text returns the response's first text block, or "".
func (r *Response) Text() string {
	for _, b := range r.Content {
		if b.Type == BlockText {
			return b.Text
		}
	}
	return ""
}

// CompletionService produces model completions for a message list, system
// instructions and an optional tool set.
type CompletionService interface {
	Complete(req Request) (*Response, error)
}
