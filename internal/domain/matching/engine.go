package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"skill-alert/internal/domain/skill"
)

var ErrInvalidRequest = errors.New("invalid match request")

const (
	SkillWeight      = 0.50
	SalaryWeight     = 0.25
	ExperienceWeight = 0.15
	LocationWeight   = 0.10
)

// Request is one resume scored against one opening. Pointer fields are
// optional signals; a nil value resolves to the factor's neutral score.
type Request struct {
	ResumeText         string
	RequiredSkillsText string
	// RequiredSkills takes precedence over RequiredSkillsText when non-empty.
	RequiredSkills    []string
	SalaryMin         *float64
	SalaryMax         *float64
	CandidateSalary   *float64
	ExperienceYears   *int
	CandidateLocation string
	RequiredLocation  string
	Threshold         float64
}

type Result struct {
	Score           float64   `json:"score"`
	SkillScore      float64   `json:"skill_score"`
	SalaryScore     float64   `json:"salary_score"`
	ExperienceScore float64   `json:"experience_score"`
	LocationScore   float64   `json:"location_score"`
	ExperienceYears int       `json:"experience_years"`
	MatchedSkills   []string  `json:"matched_skills"`
	MissingSkills   []string  `json:"missing_skills"`
	Matched         bool      `json:"matched"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

type SkillExtractor interface {
	Extract(text string) skill.Set
	Registry() *skill.Registry
}

type Engine struct {
	extractor SkillExtractor
	matcher   *skill.Matcher
	now       func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(extractor SkillExtractor, matcher *skill.Matcher, opts ...Option) *Engine {
	if extractor == nil {
		extractor = skill.NewExtractor(skill.FallbackRegistry())
	}
	if matcher == nil {
		matcher = skill.NewMatcher()
	}
	e := &Engine{extractor: extractor, matcher: matcher, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute scores req. It fails only on structurally invalid input and never
// returns a partial result.
func (e *Engine) Compute(req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	resume := e.extractor.Extract(req.ResumeText)
	var required skill.Set
	if len(req.RequiredSkills) > 0 {
		required = skill.ParseList(e.extractor.Registry(), strings.Join(req.RequiredSkills, ","))
	} else {
		required = e.extractor.Extract(req.RequiredSkillsText)
	}
	outcome := e.matcher.Match(resume, required)

	years := ExperienceYears(req.ResumeText)
	if req.ExperienceYears != nil {
		years = *req.ExperienceYears
	}

	res := Result{
		SkillScore:      clampScore(outcome.Percentage),
		SalaryScore:     clampScore(SalaryScore(req.SalaryMin, req.SalaryMax, req.CandidateSalary)),
		ExperienceScore: clampScore(ExperienceScore(years)),
		LocationScore:   clampScore(LocationScore(req.CandidateLocation, req.RequiredLocation)),
		ExperienceYears: years,
		MatchedSkills:   outcome.Matched.Sorted(),
		MissingSkills:   outcome.Missing.Sorted(),
		EvaluatedAt:     e.now().UTC(),
	}
	res.Score = clampScore(SkillWeight*res.SkillScore +
		SalaryWeight*res.SalaryScore +
		ExperienceWeight*res.ExperienceScore +
		LocationWeight*res.LocationScore)
	res.Matched = res.Score >= req.Threshold
	return res, nil
}

func Validate(req Request) error {
	if math.IsNaN(req.Threshold) || req.Threshold < 0 || req.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v outside [0,100]", ErrInvalidRequest, req.Threshold)
	}
	for name, v := range map[string]*float64{
		"salary_min":       req.SalaryMin,
		"salary_max":       req.SalaryMax,
		"candidate_salary": req.CandidateSalary,
	} {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidRequest, name)
		}
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return fmt.Errorf("%w: salary_min %v greater than salary_max %v", ErrInvalidRequest, *req.SalaryMin, *req.SalaryMax)
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return fmt.Errorf("%w: experience_years must not be negative", ErrInvalidRequest)
	}
	return nil
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
