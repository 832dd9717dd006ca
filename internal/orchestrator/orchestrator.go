// Package orchestrator drives the bounded tool-calling protocol between the
// completion service and the tool registry.
package orchestrator

import (
	"fmt"

	"coursechat/internal/llm"
)

// Dispatcher executes a named tool call. Implemented by tools.Registry.
type Dispatcher interface {
	Dispatch(name string, args map[string]any) (string, error)
}

type state int

const (
	awaitingModelResponse state = iota
	executingTools
	done
)

// Orchestrator runs a user query through up to maxRounds rounds of tool
// calling, then forces a terminal answer.
type Orchestrator struct {
	svc       llm.CompletionService
	maxRounds int
}

func New(svc llm.CompletionService, maxRounds int) *Orchestrator {
	if maxRounds <= 0 {
		maxRounds = 2
	}
	return &Orchestrator{svc: svc, maxRounds: maxRounds}
}

// Respond produces the final answer text for query. system carries the tool
// guidance and formatting rules; tools/dispatcher may be nil for a plain
// completion. Tool execution failures are folded back into model context and
// end the tool phase early; they never abort the query.
func (o *Orchestrator) Respond(query, system string, tools []llm.ToolDefinition, dispatcher Dispatcher) (string, error) {
	messages := []llm.Message{llm.UserText(query)}

	var pending *llm.Response
	rounds := 0
	st := awaitingModelResponse
	for st != done {
		switch st {
		case awaitingModelResponse:
			resp, err := o.svc.Complete(llm.Request{Messages: messages, System: system, Tools: tools})
			if err != nil {
				return "", err
			}
			// A tool request without a dispatcher is treated as if no tool
			// existed: whatever text came along is the answer.
			if resp.StopReason == llm.StopReasonToolUse && dispatcher != nil {
				pending = resp
				st = executingTools
				break
			}
			return resp.Text(), nil

		case executingTools:
			messages = append(messages, llm.Message{Role: "assistant", Content: pending.Content})
			results, failed := o.executeTools(pending, dispatcher)
			if len(results) > 0 {
				messages = append(messages, llm.Message{Role: "user", Content: results})
			}
			rounds++
			// A failure already surfaces as context; stop issuing rounds and
			// let the final call answer from what we have.
			if failed || rounds >= o.maxRounds {
				st = done
				break
			}
			st = awaitingModelResponse
		}
	}

	// Rounds exhausted: one final call with tools disabled so the model must
	// produce a terminal answer from accumulated context.
	resp, err := o.svc.Complete(llm.Request{Messages: messages, System: system})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// executeTools dispatches every requested call sequentially in request order,
// pairing each result with its tool_use id. On the first failure the error is
// recorded as the result text and execution stops.
func (o *Orchestrator) executeTools(resp *llm.Response, dispatcher Dispatcher) ([]llm.ContentBlock, bool) {
	var results []llm.ContentBlock
	for _, block := range resp.Content {
		if block.Type != llm.BlockToolUse {
			continue
		}
		text, err := dispatcher.Dispatch(block.Name, block.Input)
		if err != nil {
			results = append(results, llm.ContentBlock{
				Type:      llm.BlockToolResult,
				ToolUseID: block.ID,
				Content:   fmt.Sprintf("Error: Tool execution failed - %s", err),
			})
			return results, true
		}
		results = append(results, llm.ContentBlock{
			Type:      llm.BlockToolResult,
			ToolUseID: block.ID,
			Content:   text,
		})
	}
	return results, false
}
