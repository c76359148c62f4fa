package skill

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var ErrEmptyRegistry = errors.New("skill registry source returned no skills")

// Registry is the read-only set of recognized skills. Build it once and
// share it; nothing mutates it after construction.
type Registry struct {
	byNorm   map[string]Token
	byPhrase map[string]Token // multi-word names keyed by space-joined words
	tokens   []Token
	maxWords int
	sum      string
}

func NewRegistry(tokens []Token) *Registry {
	r := &Registry{
		byNorm:   make(map[string]Token, len(tokens)),
		byPhrase: make(map[string]Token),
	}
	for _, t := range tokens {
		name := strings.TrimSpace(t.Name)
		norm := Normalize(name)
		if norm == "" {
			continue
		}
		if _, ok := r.byNorm[norm]; ok {
			continue
		}
		cat := strings.TrimSpace(t.Category)
		if cat == "" {
			cat = DefaultCategory
		}
		tok := Token{Name: name, Category: cat}
		r.byNorm[norm] = tok
		r.tokens = append(r.tokens, tok)
		ws := words(name)
		if len(ws) > 1 {
			phrase := strings.Join(ws, " ")
			if _, ok := r.byPhrase[phrase]; !ok {
				r.byPhrase[phrase] = tok
			}
		}
		if len(ws) > r.maxWords {
			r.maxWords = len(ws)
		}
	}
	sort.Slice(r.tokens, func(i, j int) bool { return r.tokens[i].Name < r.tokens[j].Name })

	h := sha256.New()
	for _, t := range r.tokens {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", Normalize(t.Name), t.Name, t.Category)
	}
	r.sum = hex.EncodeToString(h.Sum(nil))[:16]
	return r
}

// Fingerprint identifies the registry contents. Registries built from the
// same tokens share it; any added, removed or renamed skill changes it.
func (r *Registry) Fingerprint() string {
	if r == nil {
		return ""
	}
	return r.sum
}

// Lookup finds a skill by any spelling that normalizes to a registry entry.
func (r *Registry) Lookup(name string) (Token, bool) {
	if r == nil {
		return Token{}, false
	}
	t, ok := r.byNorm[Normalize(name)]
	return t, ok
}

// DisplayName returns the canonical name for token, or "" when unknown.
func (r *Registry) DisplayName(token string) string {
	t, ok := r.Lookup(token)
	if !ok {
		return ""
	}
	return t.Name
}

func (r *Registry) Category(name string) string {
	t, ok := r.Lookup(name)
	if !ok {
		return ""
	}
	return t.Category
}

// Tokens returns a sorted copy of every registered skill.
func (r *Registry) Tokens() []Token {
	if r == nil {
		return nil
	}
	out := make([]Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tokens)
}

// Source supplies registry entries at startup.
type Source interface {
	Load(ctx context.Context) ([]Token, error)
}

type SourceFunc func(ctx context.Context) ([]Token, error)

func (f SourceFunc) Load(ctx context.Context) ([]Token, error) { return f(ctx) }

// FileSource reads {"skills":[{"name":"Go","category":"Language"}]} from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]Token, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("skills file: empty path")
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("skills file: %w", err)
	}
	return DecodeTokens(b)
}

type registryDocument struct {
	Skills []Token `json:"skills"`
}

// DecodeTokens parses the registry JSON document shared by all file-like sources.
func DecodeTokens(b []byte) ([]Token, error) {
	var doc registryDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return doc.Skills, nil
}

// LoadRegistry returns the registry from the first source that yields at
// least one skill, or the built-in list when none does.
func LoadRegistry(ctx context.Context, logger *zap.Logger, sources ...Source) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i, src := range sources {
		if src == nil {
			continue
		}
		tokens, err := src.Load(ctx)
		if err == nil && len(tokens) == 0 {
			err = ErrEmptyRegistry
		}
		if err != nil {
			logger.Warn("skill registry source failed", zap.Int("source", i), zap.Error(err))
			continue
		}
		reg := NewRegistry(tokens)
		if reg.Len() == 0 {
			logger.Warn("skill registry source failed", zap.Int("source", i), zap.Error(ErrEmptyRegistry))
			continue
		}
		logger.Info("skill registry loaded", zap.Int("source", i), zap.Int("skills", reg.Len()))
		return reg
	}
	reg := FallbackRegistry()
	logger.Warn("skill registry using built-in list", zap.Int("skills", reg.Len()))
	return reg
}

var fallbackNames = []string{
	"Java", "Python", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust",
	"SQL", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"Spring", "Spring Boot", "Hibernate", "React", "Angular", "Node.js", "Express",
	"HTML", "CSS", "REST", "GraphQL", "JSON", "XML",
	"Docker", "Kubernetes", "AWS", "Azure", "GCP",
	"Git", "GitHub", "GitLab", "Maven", "Gradle",
	"JUnit", "Mockito", "Jest", "Pytest",
	"Agile", "Scrum", "TDD", "Linux", "Windows",
	"OOP", "Microservices", "Design Patterns", "SOLID",
}

const FallbackCategory = "General"

func FallbackTokens() []Token {
	out := make([]Token, 0, len(fallbackNames))
	for _, n := range fallbackNames {
		out = append(out, Token{Name: n, Category: FallbackCategory})
	}
	return out
}

func FallbackRegistry() *Registry {
	return NewRegistry(FallbackTokens())
}
