package tools

import (
	"fmt"
	"strings"

	"coursechat/internal/llm"
	"coursechat/internal/vectorstore"
)

// OutlineTool renders a course's title, link and ordered lesson list from
// catalog metadata.
type OutlineTool struct {
	index *vectorstore.Index
}

func NewOutlineTool(index *vectorstore.Index) *OutlineTool {
	return &OutlineTool{index: index}
}

func (t *OutlineTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get course outline with title, link, and complete lesson list",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.SchemaProperty{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute resolves the loose course name and formats the outline.
// Unresolvable names are a text result, not an error.
func (t *OutlineTool) Execute(args map[string]any) (string, error) {
	courseName := argString(args, "course_name")
	courseTitle, ok := t.index.ResolveCourseName(courseName)
	if !ok {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}
	course, ok := t.index.CourseOutline(courseTitle)
	if !ok {
		return fmt.Sprintf("Course metadata not found for '%s'", courseTitle), nil
	}
	if len(course.Lessons) == 0 {
		return fmt.Sprintf("No lesson information available for '%s'", courseTitle), nil
	}

	var outline []string
	outline = append(outline, "**Course Title:** "+course.Title)
	link := course.Link
	if link == "" {
		link = "N/A"
	}
	outline = append(outline, "**Course Link:** "+link)
	outline = append(outline, fmt.Sprintf("**Total Lessons:** %d", len(course.Lessons)))
	outline = append(outline, "\n**Lesson Outline:**")
	for _, lesson := range course.Lessons {
		outline = append(outline, fmt.Sprintf("Lesson %d: %s", lesson.Number, lesson.Title))
	}
	return strings.Join(outline, "\n"), nil
}
