package usecase

import (
	"strings"

	"skill-alert/internal/domain/matching"
	"skill-alert/internal/domain/skill"
)

type Comparison struct {
	Matched    []string `json:"matched_skills"`
	Missing    []string `json:"missing_skills"`
	Percentage float64  `json:"percentage"`
}

type SkillUsecase interface {
	ListSkills() []skill.Token
	Extract(text string) []string
	Compare(resumeText, requiredText string) Comparison
}

type Skill struct {
	extractor matching.SkillExtractor
	matcher   *skill.Matcher
}

func NewSkillUsecase(extractor matching.SkillExtractor, matcher *skill.Matcher) *Skill {
	if matcher == nil {
		matcher = skill.NewMatcher()
	}
	return &Skill{extractor: extractor, matcher: matcher}
}

func (u *Skill) ListSkills() []skill.Token {
	return u.extractor.Registry().Tokens()
}

func (u *Skill) Extract(text string) []string {
	return u.extractor.Extract(text).Sorted()
}

// Compare extracts both texts and matches them. A blank resume text counts
// as no resume at all.
func (u *Skill) Compare(resumeText, requiredText string) Comparison {
	var resume skill.Set
	if strings.TrimSpace(resumeText) != "" {
		resume = u.extractor.Extract(resumeText)
	}
	out := u.matcher.Match(resume, u.extractor.Extract(requiredText))
	return Comparison{
		Matched:    out.Matched.Sorted(),
		Missing:    out.Missing.Sorted(),
		Percentage: out.Percentage,
	}
}
