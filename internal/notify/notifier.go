package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeMatch  = "job_match"
	TypeDigest = "digest"
)

var ErrInvalidMessage = errors.New("invalid notification message")

// Notifier hands messages to the delivery side. An error
// means the message was not accepted and the caller must treat the
// notification as unsent.
type Notifier interface {
	NotifyMatch(ctx context.Context, msg MatchMessage) error
	NotifyDigest(ctx context.Context, msg DigestMessage) error
}

type Recipient struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
}

type MatchMessage struct {
	Type          string    `json:"type"`
	Recipient     Recipient `json:"recipient"`
	AlertID       uuid.UUID `json:"alert_id"`
	MatchID       uuid.UUID `json:"match_id"`
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company,omitempty"`
	Score         float64   `json:"score"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
	Link          string    `json:"link,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type DigestItem struct {
	MatchID   uuid.UUID `json:"match_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company,omitempty"`
	Score     float64   `json:"score"`
	Link      string    `json:"link,omitempty"`
	MatchedAt time.Time `json:"matched_at"`
}

type DigestMessage struct {
	Type      string       `json:"type"`
	Recipient Recipient    `json:"recipient"`
	Matches   []DigestItem `json:"matches"`
	CreatedAt time.Time    `json:"created_at"`
}

func (m MatchMessage) validate() error {
	if m.Recipient.Email == "" {
		return errors.Join(ErrInvalidMessage, errors.New("recipient email is empty"))
	}
	return nil
}

func (m DigestMessage) validate() error {
	if m.Recipient.Email == "" {
		return errors.Join(ErrInvalidMessage, errors.New("recipient email is empty"))
	}
	if len(m.Matches) == 0 {
		return errors.Join(ErrInvalidMessage, errors.New("digest has no matches"))
	}
	return nil
}
