package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventMatchFound = "match_found"

type MatchFoundEvent struct {
	Type          string   `json:"type"`
	AlertID       string   `json:"alert_id"`
	JobTitle      string   `json:"job_title"`
	Company       string   `json:"company,omitempty"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Timestamp     string   `json:"timestamp"`
}

// MatchPusher delivers match_found events through a Hub.
type MatchPusher struct {
	hub *Hub
}

func NewMatchPusher(hub *Hub) *MatchPusher {
	return &MatchPusher{hub: hub}
}

func (p *MatchPusher) PushMatch(userID uuid.UUID, evt MatchFoundEvent, at time.Time) error {
	if p == nil || p.hub == nil {
		return nil
	}
	evt.Type = EventMatchFound
	evt.Timestamp = at.UTC().Format(time.RFC3339)
	if evt.MatchedSkills == nil {
		evt.MatchedSkills = []string{}
	}
	if evt.MissingSkills == nil {
		evt.MissingSkills = []string{}
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	p.hub.SendToUser(userID, b)
	return nil
}
