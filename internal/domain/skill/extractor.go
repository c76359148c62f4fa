package skill

import (
	"strings"
)

type Extractor struct {
	registry *Registry
}

func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Extractor{registry: registry}
}

func (e *Extractor) Registry() *Registry {
	return e.registry
}

// Extract returns the canonical names of every registry skill mentioned in
// text. A single word matches a skill whose normalized name it equals
// ("nodejs", "C++"); a run of adjacent words matches a multi-word skill with
// the same words ("Spring Boot", "Node.js"). Unknown technologies are never
// returned.
func (e *Extractor) Extract(text string) Set {
	found := NewSet()
	if strings.TrimSpace(text) == "" || e.registry.Len() == 0 {
		return found
	}

	ws := words(text)
	for i := range ws {
		if tok, ok := e.registry.byNorm[ws[i]]; ok {
			found.Add(tok.Name)
		}
		for n := 2; n <= e.registry.maxWords && i+n <= len(ws); n++ {
			if tok, ok := e.registry.byPhrase[strings.Join(ws[i:i+n], " ")]; ok {
				found.Add(tok.Name)
			}
		}
	}
	return found
}
