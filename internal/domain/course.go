package domain

// Lesson is a numbered section of a course. Owned by its Course.
type Lesson struct {
	Number int
	Title  string
	Link   string
}

// Course is a parsed course document. The title doubles as the unique
// identifier across the whole index.
type Course struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}

// Chunk is a bounded passage of course text stored as one retrievable unit.
// Identity is (CourseTitle, Index); Index is monotonic within one document,
// not reset per lesson.
type Chunk struct {
	Content      string
	CourseTitle  string
	LessonNumber int // valid only when HasLesson; courses number from 0
	HasLesson    bool
	Index        int
}
