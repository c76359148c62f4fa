package skill

import "strings"

// MatchOutcome is a read-only snapshot; callers must not mutate the sets.
type MatchOutcome struct {
	Matched    Set
	Missing    Set
	Percentage float64
}

// Matcher compares canonical names exactly. Case folding belongs to the
// extractor.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match reports which required skills the resume covers. The percentage is
// 0 when nothing is required or the resume set is nil.
func (m *Matcher) Match(resume, required Set) MatchOutcome {
	out := MatchOutcome{Matched: NewSet(), Missing: NewSet()}
	for name := range required {
		if resume.Has(name) {
			out.Matched.Add(name)
		} else {
			out.Missing.Add(name)
		}
	}
	if resume == nil || required.Len() == 0 {
		return out
	}
	out.Percentage = 100 * float64(out.Matched.Len()) / float64(required.Len())
	return out
}

// ParseList splits a comma-separated skill list and resolves each entry to
// its canonical registry name. Unknown entries are kept as written.
func ParseList(registry *Registry, csv string) Set {
	out := NewSet()
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name := registry.DisplayName(part); name != "" {
			part = name
		}
		out.Add(part)
	}
	return out
}
