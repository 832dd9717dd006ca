package tools

import (
	"fmt"
	"strings"

	"coursechat/internal/llm"
	"coursechat/internal/vectorstore"
)

// SearchTool searches course content with loose course-name matching and
// optional lesson filtering. It records the provenance of its most recent
// execution for the registry to collect after the query completes.
type SearchTool struct {
	index *vectorstore.Index

	lastSources     []string
	lastSourceLinks []string
}

func NewSearchTool(index *vectorstore.Index) *SearchTool {
	return &SearchTool{index: index}
}

func (t *SearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.SchemaProperty{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchTool) Execute(args map[string]any) (string, error) {
	query := argString(args, "query")
	courseName := argString(args, "course_name")
	var lessonNumber *int
	if n, ok := argInt(args, "lesson_number"); ok {
		lessonNumber = &n
	}

	results := t.index.Search(query, courseName, lessonNumber, 0)
	if results.Err != "" {
		return results.Err, nil
	}
	if results.IsEmpty() {
		var filterInfo strings.Builder
		if courseName != "" {
			fmt.Fprintf(&filterInfo, " in course '%s'", courseName)
		}
		if lessonNumber != nil {
			fmt.Fprintf(&filterInfo, " in lesson %d", *lessonNumber)
		}
		return fmt.Sprintf("No relevant content found%s.", filterInfo.String()), nil
	}
	return t.formatResults(results.Documents, results.Metadata), nil
}

// formatResults renders each hit as a "[Course - Lesson N]" labeled block and
// overwrites the tool's provenance state.
func (t *SearchTool) formatResults(documents []string, metadata []map[string]any) string {
	var formatted []string
	var sources, sourceLinks []string

	for i, doc := range documents {
		meta := map[string]any{}
		if i < len(metadata) && metadata[i] != nil {
			meta = metadata[i]
		}
		courseTitle, _ := meta["course_title"].(string)
		if courseTitle == "" {
			courseTitle = "unknown"
		}
		lessonNumber, hasLesson := metaInt(meta, "lesson_number")

		header := "[" + courseTitle
		source := courseTitle
		link := ""
		if hasLesson {
			header += fmt.Sprintf(" - Lesson %d", lessonNumber)
			source += fmt.Sprintf(" - Lesson %d", lessonNumber)
			link = t.index.LessonLink(courseTitle, lessonNumber)
		}
		header += "]"

		sources = append(sources, source)
		sourceLinks = append(sourceLinks, link)
		formatted = append(formatted, header+"\n"+doc)
	}

	t.lastSources = sources
	t.lastSourceLinks = sourceLinks
	return strings.Join(formatted, "\n\n")
}

func (t *SearchTool) LastSources() []string     { return t.lastSources }
func (t *SearchTool) LastSourceLinks() []string { return t.lastSourceLinks }

func (t *SearchTool) ResetSources() {
	t.lastSources = nil
	t.lastSourceLinks = nil
}

// metaInt reads a numeric metadata value across the int/float64 forms JSON
// round-trips produce.
func metaInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
