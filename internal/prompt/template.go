// Package prompt fills fixed instruction templates with user values.
//
// Placeholders are written {name}. A doubled brace ({{ or }}) is a literal
// brace. Values are substituted in one pass and never re-scanned, so user
// text containing braces is inserted as-is.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingPlaceholderValue = errors.New("missing placeholder value")
	ErrMalformedTemplate       = errors.New("malformed template")
)

// MissingValueError lists the placeholders that had no value at fill time.
type MissingValueError struct {
	Names []string
}

func (e *MissingValueError) Error() string {
	return "missing placeholder value: " + strings.Join(e.Names, ", ")
}

func (e *MissingValueError) Unwrap() error { return ErrMissingPlaceholderValue }

type segment struct {
	literal     string
	placeholder string
}

// Template is an immutable parsed instruction template.
type Template struct {
	text     string
	segments []segment
	names    []string
}

// New parses text. Placeholder names follow Go identifier rules.
func New(text string) (*Template, error) {
	t := &Template{text: text}
	seen := map[string]bool{}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := text[i+1 : i+1+end]
			if !validName(name) {
				return nil, fmt.Errorf("%w: bad placeholder name %q", ErrMalformedTemplate, name)
			}
			flush()
			t.segments = append(t.segments, segment{placeholder: name})
			if !seen[name] {
				seen[name] = true
				t.names = append(t.names, name)
			}
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// MustNew is New for templates compiled into the binary.
func MustNew(text string) *Template {
	t, err := New(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns the placeholder names in order of first appearance.
func (t *Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Text returns the raw template source.
func (t *Template) Text() string { return t.text }

// Fill substitutes every placeholder. Extra values are ignored.
func (t *Template) Fill(values map[string]string) (string, error) {
	var missing []string
	for _, n := range t.names {
		if _, ok := values[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return "", &MissingValueError{Names: missing}
	}

	var b strings.Builder
	for _, s := range t.segments {
		if s.placeholder != "" {
			b.WriteString(values[s.placeholder])
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String(), nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
