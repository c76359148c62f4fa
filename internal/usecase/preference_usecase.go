package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/domain/notification"
	"skill-alert/internal/repository"
)

type Eligibility struct {
	ShouldNotify      bool  `json:"should_notify"`
	ShouldDigest      bool  `json:"should_digest"`
	ShouldDigestNow   bool  `json:"should_digest_now"`
	InDigestWindow    bool  `json:"in_digest_window"`
	ShouldRemind      bool  `json:"should_remind"`
	ShouldNotifyMatch *bool `json:"should_notify_match,omitempty"`
	ShouldPushMatch   *bool `json:"should_push_match,omitempty"`
}

type PreferenceUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (notification.Preference, error)
	Update(ctx context.Context, userID uuid.UUID, u notification.Update) (notification.Preference, error)
	OptIn(ctx context.Context, userID uuid.UUID) (notification.Preference, error)
	OptOut(ctx context.Context, userID uuid.UUID) (notification.Preference, error)
	Eligibility(ctx context.Context, userID uuid.UUID, score *float64) (Eligibility, error)
}

type Preference struct {
	prefs    repository.PreferenceRepository
	contacts repository.ContactRepository
	now      func() time.Time
}

func NewPreferenceUsecase(prefs repository.PreferenceRepository, contacts repository.ContactRepository, now func() time.Time) *Preference {
	if now == nil {
		now = time.Now
	}
	return &Preference{prefs: prefs, contacts: contacts, now: now}
}

// Get returns the stored preferences, creating the defaults on first access
// for a known user.
func (u *Preference) Get(ctx context.Context, userID uuid.UUID) (notification.Preference, error) {
	if userID == uuid.Nil {
		return notification.Preference{}, ErrInvalidInput
	}
	p, err := u.prefs.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return notification.Preference{}, ErrInternal
	}

	if _, err := u.contacts.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notification.Preference{}, ErrNotFound
		}
		return notification.Preference{}, ErrInternal
	}
	p = notification.Defaults(userID, u.now().UTC())
	if err := u.prefs.Save(ctx, p); err != nil {
		return notification.Preference{}, ErrInternal
	}
	return p, nil
}

func (u *Preference) save(ctx context.Context, p notification.Preference) (notification.Preference, error) {
	if err := u.prefs.Save(ctx, p); err != nil {
		return notification.Preference{}, ErrInternal
	}
	return p, nil
}

func (u *Preference) Update(ctx context.Context, userID uuid.UUID, upd notification.Update) (notification.Preference, error) {
	p, err := u.Get(ctx, userID)
	if err != nil {
		return notification.Preference{}, err
	}
	next, err := notification.Apply(p, upd, u.now().UTC())
	if err != nil {
		return notification.Preference{}, invalid(err)
	}
	return u.save(ctx, next)
}

func (u *Preference) OptIn(ctx context.Context, userID uuid.UUID) (notification.Preference, error) {
	p, err := u.Get(ctx, userID)
	if err != nil {
		return notification.Preference{}, err
	}
	return u.save(ctx, notification.OptIn(p, u.now().UTC()))
}

func (u *Preference) OptOut(ctx context.Context, userID uuid.UUID) (notification.Preference, error) {
	p, err := u.Get(ctx, userID)
	if err != nil {
		return notification.Preference{}, err
	}
	return u.save(ctx, notification.OptOut(p, u.now().UTC()))
}

// Eligibility evaluates every filter for the user. Score-dependent answers
// are included only when score is given.
func (u *Preference) Eligibility(ctx context.Context, userID uuid.UUID, score *float64) (Eligibility, error) {
	p, err := u.Get(ctx, userID)
	if err != nil {
		return Eligibility{}, err
	}
	now := u.now()
	out := Eligibility{
		ShouldNotify:    notification.ShouldNotify(p),
		ShouldDigest:    notification.ShouldDigest(p),
		ShouldDigestNow: notification.ShouldDigestNow(p, now),
		InDigestWindow:  notification.InDigestWindow(p, now),
		ShouldRemind:    notification.ShouldRemind(p),
	}
	if score != nil {
		notify := notification.ShouldNotifyMatch(p, *score)
		push := notification.ShouldPushMatch(p, *score)
		out.ShouldNotifyMatch = &notify
		out.ShouldPushMatch = &push
	}
	return out, nil
}
