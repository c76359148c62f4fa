package dto

import (
	"skill-alert/internal/domain/alert"
	"skill-alert/internal/domain/matching"
)

type MatchRequest struct {
	ResumeText         string   `json:"resume_text"`
	RequiredSkillsText string   `json:"required_skills_text"`
	RequiredSkills     []string `json:"required_skills"`
	SalaryMin          *float64 `json:"salary_min"`
	SalaryMax          *float64 `json:"salary_max"`
	CandidateSalary    *float64 `json:"candidate_salary"`
	ExperienceYears    *int     `json:"experience_years"`
	CandidateLocation  string   `json:"candidate_location"`
	RequiredLocation   string   `json:"required_location"`
	// Threshold defaults to the alert default when omitted.
	Threshold *float64 `json:"threshold"`
}

func (r MatchRequest) ToDomain() matching.Request {
	threshold := alert.DefaultMatchThreshold
	if r.Threshold != nil {
		threshold = *r.Threshold
	}
	return matching.Request{
		ResumeText:         r.ResumeText,
		RequiredSkillsText: r.RequiredSkillsText,
		RequiredSkills:     r.RequiredSkills,
		SalaryMin:          r.SalaryMin,
		SalaryMax:          r.SalaryMax,
		CandidateSalary:    r.CandidateSalary,
		ExperienceYears:    r.ExperienceYears,
		CandidateLocation:  r.CandidateLocation,
		RequiredLocation:   r.RequiredLocation,
		Threshold:          threshold,
	}
}
