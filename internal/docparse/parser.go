// Package docparse extracts course structure from raw course documents and
// produces the chunk stream for indexing.
//
// Expected document shape:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<lesson body...>
//
// Header matching is lenient: the three metadata lines may appear in any of
// the first lines, and an unmatched first line is taken as the title itself.
package docparse

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"coursechat/internal/domain"
)

// Parser turns one course document into a Course plus its ordered chunks.
type Parser struct {
	chunker domain.Chunker
}

func New(chunker domain.Chunker) *Parser {
	return &Parser{chunker: chunker}
}

var (
	titleRe      = regexp.MustCompile(`(?i)^Course Title:\s*(.+)$`)
	linkRe       = regexp.MustCompile(`(?i)^Course Link:\s*(.+)$`)
	instructorRe = regexp.MustCompile(`(?i)^Course Instructor:\s*(.+)$`)
	lessonRe     = regexp.MustCompile(`(?i)^Lesson\s+(\d+):\s*(.+)$`)
	lessonLinkRe = regexp.MustCompile(`(?i)^Lesson Link:\s*(.+)$`)
)

// ParseFile reads and parses the document at path. Read failures are the only
// error case; malformed content degrades to fallbacks instead of failing.
func (p *Parser) ParseFile(path string) (domain.Course, []domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Course{}, nil, err
	}
	content := decodeLossy(data)
	course, chunks := p.Parse(content, filepath.Base(path))
	return course, chunks, nil
}

// Parse processes document content. fallbackTitle (normally the file name) is
// used when no title line is present.
func (p *Parser) Parse(content, fallbackTitle string) (domain.Course, []domain.Chunk) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	course := domain.Course{Title: fallbackTitle}
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		first := strings.TrimSpace(lines[0])
		if m := titleRe.FindStringSubmatch(first); m != nil {
			course.Title = strings.TrimSpace(m[1])
		} else {
			course.Title = first
		}
	}
	// Remaining metadata sits somewhere in the next few lines.
	for i := 1; i < len(lines) && i < 4; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := linkRe.FindStringSubmatch(line); m != nil {
			course.Link = strings.TrimSpace(m[1])
			continue
		}
		if m := instructorRe.FindStringSubmatch(line); m != nil {
			course.Instructor = strings.TrimSpace(m[1])
		}
	}

	start := 3
	if len(lines) > 3 && strings.TrimSpace(lines[3]) == "" {
		start = 4
	}
	if start > len(lines) {
		start = len(lines)
	}

	var chunks []domain.Chunk
	chunkIndex := 0

	var lessonBody []string
	var lesson *domain.Lesson

	flush := func() {
		if lesson == nil {
			return
		}
		text := strings.TrimSpace(strings.Join(lessonBody, "\n"))
		if text == "" {
			return
		}
		course.Lessons = append(course.Lessons, *lesson)
		for idx, piece := range p.chunker.Split(text) {
			chunkText := piece
			if idx == 0 {
				// Lesson context on the first chunk only; later chunks stay raw.
				chunkText = "Lesson " + strconv.Itoa(lesson.Number) + " content: " + piece
			}
			chunks = append(chunks, domain.Chunk{
				Content:      chunkText,
				CourseTitle:  course.Title,
				LessonNumber: lesson.Number,
				HasLesson:    true,
				Index:        chunkIndex,
			})
			chunkIndex++
		}
	}

	for i := start; i < len(lines); i++ {
		line := lines[i]
		if m := lessonRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			num, _ := strconv.Atoi(m[1])
			lesson = &domain.Lesson{Number: num, Title: strings.TrimSpace(m[2])}
			lessonBody = nil
			if i+1 < len(lines) {
				if lm := lessonLinkRe.FindStringSubmatch(strings.TrimSpace(lines[i+1])); lm != nil {
					lesson.Link = strings.TrimSpace(lm[1])
					i++ // consume the link line, it is not lesson content
				}
			}
			continue
		}
		lessonBody = append(lessonBody, line)
	}
	flush()

	// No lesson markers anywhere: chunk the whole body as one lesson-less
	// section.
	if len(chunks) == 0 && len(lines) > start {
		body := strings.TrimSpace(strings.Join(lines[start:], "\n"))
		for _, piece := range p.chunker.Split(body) {
			chunks = append(chunks, domain.Chunk{
				Content:     piece,
				CourseTitle: course.Title,
				Index:       chunkIndex,
			})
			chunkIndex++
		}
	}

	return course, chunks
}

// decodeLossy returns data as a string, replacing invalid UTF-8 sequences
// instead of failing.
func decodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
