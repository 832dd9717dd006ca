// Package tools holds the typed operations the model may request during a
// query, plus the registry that dispatches them by name.
package tools

import "coursechat/internal/llm"

// Tool is a named, schema-declared operation executable on the model's
// behalf. Execute returns formatted text for the model to read; errors are
// reserved for genuine execution failures, not empty results.
type Tool interface {
	Definition() llm.ToolDefinition
	Execute(args map[string]any) (string, error)
}

// sourceTracker is implemented by tools that record provenance for their most
// recent execution.
type sourceTracker interface {
	LastSources() []string
	LastSourceLinks() []string
	ResetSources()
}

// argString extracts a string argument, tolerating absence.
func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// argInt extracts an integer argument; JSON decoding delivers numbers as
// float64, so both forms are accepted.
func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
