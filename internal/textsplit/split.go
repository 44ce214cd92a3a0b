// Package textsplit cuts long text into bounded, overlapping chunks.
package textsplit

import (
	"errors"
	"strings"

	"github.com/katakuxiko/promptforms/internal/model"
)

var ErrInvalidConfig = errors.New("textsplit: invalid configuration")

// Splitter prefers to cut right after one of its separators, trying them in
// order, and falls back to a hard cut at the size limit. Sizes are in runes.
type Splitter struct {
	size       int
	overlap    int
	separators [][]rune
}

// New validates size > 0 and 0 <= overlap < size.
func New(size, overlap int, separators ...string) (*Splitter, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidConfig
	}
	s := &Splitter{size: size, overlap: overlap}
	for _, sep := range separators {
		if sep != "" {
			s.separators = append(s.separators, []rune(sep))
		}
	}
	return s, nil
}

func (s *Splitter) Size() int    { return s.size }
func (s *Splitter) Overlap() int { return s.overlap }

// Split always returns at least one chunk. Consecutive chunks share exactly
// Overlap runes.
func (s *Splitter) Split(text string) []model.TextChunk {
	r := []rune(text)
	if len(r) == 0 {
		return []model.TextChunk{{Index: 0}}
	}

	var out []model.TextChunk
	start := 0
	for {
		end := start + s.size
		if end >= len(r) {
			end = len(r)
		} else {
			end = s.cut(r, start, end)
		}
		out = append(out, model.TextChunk{
			Index: len(out),
			Text:  string(r[start:end]),
			Start: start,
			End:   end,
		})
		if end == len(r) {
			return out
		}
		start = end - s.overlap
	}
}

// cut picks the end of the window [start, limit). A separator only counts if
// the cut leaves room for the next chunk to advance past the overlap.
func (s *Splitter) cut(r []rune, start, limit int) int {
	for _, sep := range s.separators {
		if p := lastIndex(r[start:limit], sep); p >= 0 {
			end := start + p + len(sep)
			if end > start+s.overlap {
				return end
			}
		}
	}
	return limit
}

func lastIndex(r, sep []rune) int {
	for i := len(r) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if r[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Reassemble concatenates each chunk's non-overlapping part, recovering the
// text the chunks were cut from.
func Reassemble(chunks []model.TextChunk) string {
	var b strings.Builder
	prevEnd := 0
	for i, c := range chunks {
		r := []rune(c.Text)
		skip := 0
		if i > 0 {
			skip = prevEnd - c.Start
		}
		if skip < len(r) {
			b.WriteString(string(r[skip:]))
		}
		prevEnd = c.End
	}
	return b.String()
}

// NormalizeNewlines turns CRLF and lone CR into LF so paragraph separators
// match text produced on any platform.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
