package alert

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/domain/cadence"
	"skill-alert/internal/domain/matching"
	"skill-alert/internal/domain/resume"
)

const DefaultMatchThreshold = 60.0

// Alert is a user's subscription to one job opening.
type Alert struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	JobTitle              string
	Company               string
	Description           string
	RequiredSkills        string // comma separated
	SalaryMin             *float64
	SalaryMax             *float64
	Location              string
	JobURL                string
	Frequency             cadence.Frequency
	MatchThreshold        float64
	SendEmailNotification bool
	Active                bool
	LastSentAt            *time.Time
	LastEvaluatedAt       *time.Time // last match recorded without an email
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// New returns an active alert with the default threshold, daily cadence and
// email delivery enabled.
func New(userID uuid.UUID, jobTitle string, now time.Time) Alert {
	return Alert{
		ID:                    uuid.New(),
		UserID:                userID,
		JobTitle:              jobTitle,
		Frequency:             cadence.Daily,
		MatchThreshold:        DefaultMatchThreshold,
		SendEmailNotification: true,
		Active:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func (a Alert) Cadence() CadenceState {
	return CadenceState{Frequency: a.Frequency, LastSentAt: a.LastSentAt, Active: a.Active}
}

// WithCadence copies the cadence fields of s back onto the alert.
func (a Alert) WithCadence(s CadenceState) Alert {
	a.Frequency = s.Frequency
	a.LastSentAt = s.LastSentAt
	a.Active = s.Active
	return a
}

// MatchRequest scores r against this opening. Alerts without an explicit
// skill list fall back to extracting skills from the description.
func (a Alert) MatchRequest(r resume.Resume) matching.Request {
	req := matching.Request{
		ResumeText:       r.Content,
		SalaryMin:        a.SalaryMin,
		SalaryMax:        a.SalaryMax,
		CandidateSalary:  r.ExpectedSalary,
		ExperienceYears:  r.ExperienceYears,
		RequiredLocation: a.Location,
		Threshold:        a.MatchThreshold,
	}
	if r.Location != nil {
		req.CandidateLocation = *r.Location
	}
	if strings.TrimSpace(a.RequiredSkills) != "" {
		req.RequiredSkills = strings.Split(a.RequiredSkills, ",")
	} else {
		req.RequiredSkillsText = a.Description
	}
	return req
}
