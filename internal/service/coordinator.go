// Package service wires ingestion, retrieval tools, the orchestrator and the
// session store into the single query/ingest API the frontends consume.
package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"coursechat/internal/docparse"
	"coursechat/internal/domain"
	"coursechat/internal/orchestrator"
	"coursechat/internal/session"
	"coursechat/internal/tools"
	"coursechat/internal/vectorstore"
)

const systemPrompt = `You are an AI assistant specialized in course materials and educational content with access to search tools for course information.

Available Tools:
- **Content Search Tool**: Use for questions about specific course content or detailed educational materials
- **Course Outline Tool**: Use for questions about course structure, lesson lists, or course overviews

Tool Usage Guidelines:
- Use content search for detailed questions about specific topics or lessons
- Use course outline tool for questions about course structure, lesson titles, or complete course overviews
- **You can make up to 2 rounds of tool calls to gather comprehensive information**
- Use multiple rounds for complex queries that require information gathering then refinement
- Synthesize tool results into accurate, fact-based responses
- If tools yield no results, state this clearly without offering alternatives

Course Outline Responses:
When using the course outline tool, always include:
- Course title
- Course link (if available)
- Complete lesson list with lesson numbers and titles
- Present information in a clear, structured format

Response Protocol:
- **General knowledge questions**: Answer using existing knowledge without searching
- **Course-specific questions**: Use appropriate tool first, then answer
- **No meta-commentary**:
 - Provide direct answers only — no reasoning process, search explanations, or question-type analysis
 - Do not mention "based on the search results" or "using the tool"

All responses must be:
1. **Brief, Concise and focused** - Get to the point quickly
2. **Educational** - Maintain instructional value
3. **Clear** - Use accessible language
4. **Example-supported** - Include relevant examples when they aid understanding
Provide only the direct answer to what was asked.`

// Ingestor is the write-path half of the façade: parsing documents into the
// index and reporting catalog analytics. It needs no completion service.
type Ingestor struct {
	parser *docparse.Parser
	index  *vectorstore.Index
}

func NewIngestor(parser *docparse.Parser, index *vectorstore.Index) *Ingestor {
	return &Ingestor{parser: parser, index: index}
}

// Index exposes the underlying vector index for tool construction.
func (c *Ingestor) Index() *vectorstore.Index { return c.index }

// Coordinator is the top-level façade over the retrieval engine.
type Coordinator struct {
	*Ingestor
	orch     *orchestrator.Orchestrator
	registry *tools.Registry
	sessions *session.Store
}

func NewCoordinator(ingestor *Ingestor, orch *orchestrator.Orchestrator, registry *tools.Registry, sessions *session.Store) *Coordinator {
	return &Coordinator{
		Ingestor: ingestor,
		orch:     orch,
		registry: registry,
		sessions: sessions,
	}
}

// IngestDocument parses and indexes one course document, returning the course
// and the number of chunks written.
func (c *Ingestor) IngestDocument(path string) (domain.Course, int, error) {
	course, chunks, err := c.parser.ParseFile(path)
	if err != nil {
		return domain.Course{}, 0, err
	}
	if err := c.index.UpsertCourse(course); err != nil {
		return domain.Course{}, 0, err
	}
	if err := c.index.UpsertChunks(chunks); err != nil {
		return domain.Course{}, 0, err
	}
	return course, len(chunks), nil
}

// IngestFolder indexes every course document in folder, skipping files whose
// resolved course title is already in the catalog so re-ingestion is cheap.
// Individual bad files are logged and skipped, never fatal. Returns the
// number of courses and chunks added.
func (c *Ingestor) IngestFolder(folder string, clearExisting bool) (int, int, error) {
	if clearExisting {
		if err := c.index.Clear(); err != nil {
			return 0, 0, err
		}
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, 0, err
	}

	existing := make(map[string]struct{})
	for _, title := range c.index.CourseTitles() {
		existing[title] = struct{}{}
	}

	totalCourses, totalChunks := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		course, chunks, err := c.parser.ParseFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		if _, ok := existing[course.Title]; ok {
			continue
		}
		if err := c.index.UpsertCourse(course); err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		if err := c.index.UpsertChunks(chunks); err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		existing[course.Title] = struct{}{}
		totalCourses++
		totalChunks += len(chunks)
	}
	return totalCourses, totalChunks, nil
}

// Query answers a user question, using the session's history as context when
// a session id is given. Returns the answer plus the provenance collected
// from tool executions during this query.
func (c *Coordinator) Query(text, sessionID string) (string, []string, []string, error) {
	prompt := fmt.Sprintf("Answer this question about course materials: %s", text)

	system := systemPrompt
	if sessionID != "" {
		if history := c.sessions.HistoryText(sessionID); history != "" {
			system = systemPrompt + "\n\nPrevious conversation:\n" + history
		}
	}

	answer, err := c.orch.Respond(prompt, system, c.registry.Definitions(), c.registry)
	if err != nil {
		return "", nil, nil, err
	}

	sources := c.registry.LastSources()
	sourceLinks := c.registry.LastSourceLinks()
	c.registry.ResetSources()

	if sessionID != "" {
		c.sessions.AddExchange(sessionID, text, answer)
	}
	return answer, sources, sourceLinks, nil
}

// Analytics reports the catalog size and its course titles.
func (c *Ingestor) Analytics() (int, []string) {
	titles := c.index.CourseTitles()
	return len(titles), titles
}

// NewSession allocates a conversation session and returns its id.
func (c *Coordinator) NewSession() string { return c.sessions.Create() }

// ClearSession empties a session's history.
func (c *Coordinator) ClearSession(id string) { c.sessions.Clear(id) }

// ClearIndex destructively resets the whole index.
func (c *Ingestor) ClearIndex() error { return c.index.Clear() }
