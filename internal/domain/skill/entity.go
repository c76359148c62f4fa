package skill

import (
	"sort"
	"strings"
)

const DefaultCategory = "Uncategorized"

// Token is a canonical skill name and the category it belongs to.
type Token struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Set holds canonical skill names. A nil Set stands for "no input".
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s Set) Add(name string) {
	if s == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the names in ascending order. Never nil.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Normalize folds a skill name or token to its lookup form: lowercase,
// "+" spelled "plus", "#" spelled "sharp", everything outside [a-z0-9] dropped.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+':
			b.WriteString("plus")
		case r == '#':
			b.WriteString("sharp")
		}
	}
	return b.String()
}

// words splits text into normalized word tokens. Separators become word
// boundaries; "+" and "#" stay attached to the preceding word.
func words(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+':
			b.WriteString("plus")
		case r == '#':
			b.WriteString("sharp")
		default:
			flush()
		}
	}
	flush()
	return out
}
