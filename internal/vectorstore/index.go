// Package vectorstore wraps the vector search backend with the two-collection
// layout the rest of the system works against: a course catalog (one entry
// per course, keyed by title) and a content store (one entry per chunk).
//
// The catalog exists so that loose course references ("the MCP course")
// resolve semantically to the exact stored title, which is then usable as a
// metadata filter key on the content store.
package vectorstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursechat/internal/backend"
	"coursechat/internal/domain"
)

const (
	catalogCollection = "course_catalog"
	contentCollection = "course_content"
)

// Index is the write/read surface over both collections. Backend failures
// never escape as errors from Search; they come back as error-flagged empty
// results.
type Index struct {
	backend    backend.Backend
	maxResults int
}

func NewIndex(b backend.Backend, maxResults int) *Index {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Index{backend: b, maxResults: maxResults}
}

type lessonMeta struct {
	LessonNumber int    `json:"lesson_number"`
	LessonTitle  string `json:"lesson_title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// UpsertCourse writes or overwrites the catalog entry for course. The lesson
// list is serialized to JSON on the entry so outline lookups need no second
// collection.
func (ix *Index) UpsertCourse(course domain.Course) error {
	lessons := make([]lessonMeta, 0, len(course.Lessons))
	for _, l := range course.Lessons {
		lessons = append(lessons, lessonMeta{LessonNumber: l.Number, LessonTitle: l.Title, LessonLink: l.Link})
	}
	lessonsJSON, err := json.Marshal(lessons)
	if err != nil {
		return err
	}
	metadata := map[string]any{
		"title":        course.Title,
		"instructor":   course.Instructor,
		"course_link":  course.Link,
		"lessons_json": string(lessonsJSON),
		"lesson_count": len(course.Lessons),
	}
	return ix.backend.Upsert(catalogCollection,
		[]string{course.Title}, []string{course.Title}, []map[string]any{metadata})
}

// UpsertChunks bulk-writes content entries. Empty input is a no-op.
func (ix *Index) UpsertChunks(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		ids[i] = fmt.Sprintf("%s_%d", strings.ReplaceAll(ch.CourseTitle, " ", "_"), ch.Index)
		documents[i] = ch.Content
		m := map[string]any{
			"course_title": ch.CourseTitle,
			"chunk_index":  ch.Index,
		}
		if ch.HasLesson {
			m["lesson_number"] = ch.LessonNumber
		}
		metadatas[i] = m
	}
	return ix.backend.Upsert(contentCollection, ids, documents, metadatas)
}

// Search resolves an optional loose course name, builds the metadata filter,
// and runs the content query. limit <= 0 uses the configured maximum.
func (ix *Index) Search(query, courseName string, lessonNumber *int, limit int) domain.SearchResults {
	courseTitle := ""
	if courseName != "" {
		title, ok := ix.ResolveCourseName(courseName)
		if !ok {
			return domain.ErrorResults(fmt.Sprintf("No course found matching '%s'", courseName))
		}
		courseTitle = title
	}

	where := buildFilter(courseTitle, lessonNumber)
	if limit <= 0 {
		limit = ix.maxResults
	}
	res, err := ix.backend.Query(contentCollection, query, limit, where)
	if err != nil {
		return domain.ErrorResults(fmt.Sprintf("Search error: %s", err))
	}
	return domain.SearchResults{
		Documents: res.Documents,
		Metadata:  res.Metadatas,
		Distances: res.Distances,
	}
}

// ResolveCourseName finds the best-matching stored course title for a loose
// reference via a top-1 nearest-neighbor lookup against the catalog.
func (ix *Index) ResolveCourseName(courseName string) (string, bool) {
	res, err := ix.backend.Query(catalogCollection, courseName, 1, nil)
	if err != nil || len(res.Metadatas) == 0 {
		return "", false
	}
	title, ok := res.Metadatas[0]["title"].(string)
	if !ok || title == "" {
		return "", false
	}
	return title, true
}

// buildFilter produces nil, a single equality, or a conjunction, depending on
// which of course title and lesson number are present.
func buildFilter(courseTitle string, lessonNumber *int) map[string]any {
	switch {
	case courseTitle == "" && lessonNumber == nil:
		return nil
	case courseTitle != "" && lessonNumber != nil:
		return map[string]any{"$and": []map[string]any{
			{"course_title": courseTitle},
			{"lesson_number": *lessonNumber},
		}}
	case courseTitle != "":
		return map[string]any{"course_title": courseTitle}
	default:
		return map[string]any{"lesson_number": *lessonNumber}
	}
}

// LessonLink returns the link of the given lesson from the catalog entry's
// serialized lesson list, or "" when unknown.
func (ix *Index) LessonLink(courseTitle string, lessonNumber int) string {
	for _, l := range ix.courseLessons(courseTitle) {
		if l.LessonNumber == lessonNumber {
			return l.LessonLink
		}
	}
	return ""
}

// CourseLink returns the course's link from the catalog, or "".
func (ix *Index) CourseLink(courseTitle string) string {
	res, err := ix.backend.Get(catalogCollection, []string{courseTitle})
	if err != nil || len(res.Metadatas) == 0 {
		return ""
	}
	link, _ := res.Metadatas[0]["course_link"].(string)
	return link
}

func (ix *Index) courseLessons(courseTitle string) []lessonMeta {
	res, err := ix.backend.Get(catalogCollection, []string{courseTitle})
	if err != nil || len(res.Metadatas) == 0 {
		return nil
	}
	raw, _ := res.Metadatas[0]["lessons_json"].(string)
	if raw == "" {
		return nil
	}
	var lessons []lessonMeta
	if err := json.Unmarshal([]byte(raw), &lessons); err != nil {
		return nil
	}
	return lessons
}

// CourseOutline returns the catalog view of a course: title, link and ordered
// lessons. ok is false when the title has no catalog entry.
func (ix *Index) CourseOutline(courseTitle string) (domain.Course, bool) {
	res, err := ix.backend.Get(catalogCollection, []string{courseTitle})
	if err != nil || len(res.Metadatas) == 0 {
		return domain.Course{}, false
	}
	meta := res.Metadatas[0]
	course := domain.Course{Title: courseTitle}
	if t, ok := meta["title"].(string); ok && t != "" {
		course.Title = t
	}
	course.Link, _ = meta["course_link"].(string)
	course.Instructor, _ = meta["instructor"].(string)
	for _, l := range ix.courseLessons(courseTitle) {
		course.Lessons = append(course.Lessons, domain.Lesson{
			Number: l.LessonNumber,
			Title:  l.LessonTitle,
			Link:   l.LessonLink,
		})
	}
	return course, true
}

// CourseTitles lists every course title in the catalog.
func (ix *Index) CourseTitles() []string {
	res, err := ix.backend.Get(catalogCollection, nil)
	if err != nil {
		return nil
	}
	return res.IDs
}

// CourseCount returns how many courses the catalog holds.
func (ix *Index) CourseCount() int { return len(ix.CourseTitles()) }

// Clear destructively resets both collections.
func (ix *Index) Clear() error {
	if err := ix.backend.DeleteCollection(catalogCollection); err != nil {
		return err
	}
	return ix.backend.DeleteCollection(contentCollection)
}
