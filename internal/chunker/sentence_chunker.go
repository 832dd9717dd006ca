package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// SentenceChunker splits text into character-budgeted chunks built from whole
// sentences. Consecutive chunks share a trailing run of sentences whose
// joined length fits the overlap budget.
type SentenceChunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewSentenceChunker creates a chunker with the given character budgets.
// Overlap must be smaller than size; out-of-range values fall back to
// defaults.
func NewSentenceChunker(chunkSize, chunkOverlap int) *SentenceChunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &SentenceChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Split produces the chunk sequence for text. Degenerate inputs (empty text,
// no sentence boundaries) yield zero or one chunk. A single sentence longer
// than the chunk size is emitted whole rather than truncated.
func (c *SentenceChunker) Split(text string) []string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return nil
	}
	sentences := splitSentences(text)

	var chunks []string
	i := 0
	for i < len(sentences) {
		var current []string
		size := 0
		for j := i; j < len(sentences); j++ {
			add := len(sentences[j])
			if len(current) > 0 {
				add++ // joining space
			}
			if size+add > c.chunkSize && len(current) > 0 {
				break
			}
			current = append(current, sentences[j])
			size += add
		}
		if len(current) == 0 {
			i++
			continue
		}
		chunks = append(chunks, strings.Join(current, " "))

		if c.chunkOverlap > 0 {
			// Count trailing sentences that fit the overlap budget.
			overlapSize := 0
			overlapCount := 0
			for k := len(current) - 1; k >= 0; k-- {
				l := len(current[k])
				if k < len(current)-1 {
					l++
				}
				if overlapSize+l > c.chunkOverlap {
					break
				}
				overlapSize += l
				overlapCount++
			}
			next := i + len(current) - overlapCount
			if next <= i {
				next = i + 1 // always make forward progress
			}
			i = next
		} else {
			i += len(current)
		}
	}
	return chunks
}

// splitSentences cuts text at `.`, `!` or `?` followed by whitespace and an
// uppercase letter. Periods ending dotted abbreviations (e.g., U.S.) or
// two-letter honorifics (Mr., Dr.) do not terminate a sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		if r == '.' && isAbbreviation(runes, i) {
			continue
		}
		s := strings.TrimSpace(string(runes[start:i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = j
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// isAbbreviation reports whether the period at runes[dot] ends a dotted
// abbreviation ("e.g.", "U.S.") or a capitalized two-letter honorific
// ("Mr.", "Dr.").
func isAbbreviation(runes []rune, dot int) bool {
	// letter '.' letter '.' pattern ending here
	if dot >= 3 &&
		isWordRune(runes[dot-1]) && runes[dot-2] == '.' && isWordRune(runes[dot-3]) {
		return true
	}
	// Capital + lowercase letter directly before the period
	if dot >= 2 &&
		unicode.IsUpper(runes[dot-2]) && unicode.IsLower(runes[dot-1]) &&
		(dot == 2 || !isWordRune(runes[dot-3])) {
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
