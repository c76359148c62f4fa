package match

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobMatch is the persisted outcome of scoring a user's resume against one
// alert during a dispatch cycle.
type JobMatch struct {
	ID                 uuid.UUID
	AlertID            uuid.UUID
	CycleKey           string // alert cycle the match belongs to, unique per alert
	UserID             uuid.UUID
	ResumeID           uuid.UUID
	JobTitle           string
	Company            string
	JobURL             string
	MatchScore         float64
	MatchedSkills      []string
	MissingSkills      []string
	NotificationSent   bool
	NotificationSentAt *time.Time
	DigestSentAt       *time.Time
	CreatedAt          time.Time
}

// JoinSkills renders a skill list the way it is stored: comma separated.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ",")
}

// SplitSkills is the inverse of JoinSkills. Empty input yields an empty slice.
func SplitSkills(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
