package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/domain/alert"
	"skill-alert/internal/domain/matching"
	"skill-alert/internal/repository"
)

type CadenceView struct {
	AlertID       uuid.UUID  `json:"alert_id"`
	Frequency     string     `json:"frequency"`
	Active        bool       `json:"active"`
	ShouldProcess bool       `json:"should_process"`
	LastSentAt    *time.Time `json:"last_sent_at"`
	NextDueAt     *time.Time `json:"next_due_at"`
}

type AlertUsecase interface {
	Cadence(ctx context.Context, alertID uuid.UUID) (CadenceView, error)
	MarkSent(ctx context.Context, alertID uuid.UUID) (CadenceView, error)
	SetActive(ctx context.Context, alertID uuid.UUID, active bool) (CadenceView, error)
	Evaluate(ctx context.Context, alertID uuid.UUID) (matching.Result, error)
}

type Alert struct {
	alerts  repository.AlertRepository
	resumes repository.ResumeRepository
	scorer  Scorer
	now     func() time.Time
}

func NewAlertUsecase(alerts repository.AlertRepository, resumes repository.ResumeRepository, scorer Scorer, now func() time.Time) *Alert {
	if now == nil {
		now = time.Now
	}
	return &Alert{alerts: alerts, resumes: resumes, scorer: scorer, now: now}
}

func (u *Alert) load(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	if id == uuid.Nil {
		return alert.Alert{}, ErrInvalidInput
	}
	a, err := u.alerts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return alert.Alert{}, ErrNotFound
		}
		return alert.Alert{}, ErrInternal
	}
	return a, nil
}

func (u *Alert) view(a alert.Alert) CadenceView {
	s := a.Cadence()
	v := CadenceView{
		AlertID:       a.ID,
		Frequency:     s.Frequency.String(),
		Active:        s.Active,
		ShouldProcess: alert.ShouldProcess(s, u.now()),
		LastSentAt:    s.LastSentAt,
	}
	if due, ok := alert.NextDueAt(s); ok {
		v.NextDueAt = &due
	}
	return v
}

func (u *Alert) Cadence(ctx context.Context, alertID uuid.UUID) (CadenceView, error) {
	a, err := u.load(ctx, alertID)
	if err != nil {
		return CadenceView{}, err
	}
	return u.view(a), nil
}

// MarkSent records a delivery made outside the dispatch cycle.
func (u *Alert) MarkSent(ctx context.Context, alertID uuid.UUID) (CadenceView, error) {
	a, err := u.load(ctx, alertID)
	if err != nil {
		return CadenceView{}, err
	}
	stored, err := u.alerts.MarkSent(ctx, a.ID, u.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CadenceView{}, ErrNotFound
		}
		return CadenceView{}, ErrInternal
	}
	a.LastSentAt = &stored
	return u.view(a), nil
}

func (u *Alert) SetActive(ctx context.Context, alertID uuid.UUID, active bool) (CadenceView, error) {
	a, err := u.load(ctx, alertID)
	if err != nil {
		return CadenceView{}, err
	}
	s := alert.Deactivate(a.Cadence())
	if active {
		s = alert.Activate(s)
	}
	if err := u.alerts.SetActive(ctx, a.ID, s.Active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CadenceView{}, ErrNotFound
		}
		return CadenceView{}, ErrInternal
	}
	return u.view(a.WithCadence(s)), nil
}

// Evaluate scores the owner's latest resume against the alert without
// recording or sending anything.
func (u *Alert) Evaluate(ctx context.Context, alertID uuid.UUID) (matching.Result, error) {
	a, err := u.load(ctx, alertID)
	if err != nil {
		return matching.Result{}, err
	}
	res, err := u.resumes.Latest(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.Result{}, ErrNotFound
		}
		return matching.Result{}, ErrInternal
	}
	out, err := u.scorer.Compute(a.MatchRequest(res))
	if err != nil {
		if errors.Is(err, matching.ErrInvalidRequest) {
			return matching.Result{}, invalid(err)
		}
		return matching.Result{}, ErrInternal
	}
	return out, nil
}
