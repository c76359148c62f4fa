package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-alert/internal/domain/alert"
	"skill-alert/internal/domain/match"
	"skill-alert/internal/domain/matching"
	"skill-alert/internal/domain/notification"
	"skill-alert/internal/domain/resume"
	"skill-alert/internal/infrastructure/cache"
	"skill-alert/internal/notify"
	"skill-alert/internal/repository"
	"skill-alert/internal/ws"
)

var ErrCycleInProgress = errors.New("dispatch cycle already running")

type AlertStore interface {
	ListActive(ctx context.Context) ([]alert.Alert, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (time.Time, error)
	MarkEvaluated(ctx context.Context, id uuid.UUID, at time.Time) error
}

type PreferenceStore interface {
	Get(ctx context.Context, userID uuid.UUID) (notification.Preference, error)
	ListDigestCandidates(ctx context.Context) ([]notification.Preference, error)
	MarkDigestSent(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type ResumeStore interface {
	Latest(ctx context.Context, userID uuid.UUID) (resume.Resume, error)
}

type MatchStore interface {
	Create(ctx context.Context, m match.JobMatch) (uuid.UUID, bool, error)
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
	ListUndigested(ctx context.Context, userID uuid.UUID, limit int) ([]match.JobMatch, error)
	MarkDigested(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

type ContactStore interface {
	Get(ctx context.Context, userID uuid.UUID) (repository.Contact, error)
}

type Scorer interface {
	Compute(req matching.Request) (matching.Result, error)
}

type MatchPusher interface {
	PushMatch(userID uuid.UUID, evt ws.MatchFoundEvent, at time.Time) error
}

// Locker is a best-effort distributed lock. When it is not available the
// dispatcher runs unlocked, which is safe for a single instance.
type Locker interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string, token string) error
}

type Deps struct {
	Alerts      AlertStore
	Preferences PreferenceStore
	Resumes     ResumeStore
	Matches     MatchStore
	Contacts    ContactStore
	Scorer      Scorer
	Notifier    notify.Notifier
	Pusher      MatchPusher
	Locker      Locker
	Logger      *zap.Logger
}

type Options struct {
	Workers     int
	LockTTL     time.Duration
	LinkBaseURL string
	DigestLimit int
	Now         func() time.Time
}

// Stats summarizes one cycle.
type Stats struct {
	Considered int `json:"considered"`
	Skipped    int `json:"skipped"`
	Evaluated  int `json:"evaluated"`
	Matched    int `json:"matched"`
	Notified   int `json:"notified"`
	Failed     int `json:"failed"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeEvaluated
	outcomeMatched
	outcomeNotified
	outcomeFailed
)

func (s *Stats) add(o outcome) {
	s.Considered++
	switch o {
	case outcomeSkipped:
		s.Skipped++
	case outcomeEvaluated:
		s.Evaluated++
	case outcomeMatched:
		s.Evaluated++
		s.Matched++
	case outcomeNotified:
		s.Evaluated++
		s.Matched++
		s.Notified++
	case outcomeFailed:
		s.Failed++
	}
}

type Dispatcher struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
}

func New(deps Deps, opts Options) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	if opts.DigestLimit <= 0 {
		opts.DigestLimit = 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.LinkBaseURL = strings.TrimRight(opts.LinkBaseURL, "/")
	return &Dispatcher{deps: deps, opts: opts, logger: deps.Logger}
}

// lock reports whether the caller may proceed and returns a release func.
func (d *Dispatcher) lock(ctx context.Context, key string) (bool, func(), error) {
	if d.deps.Locker == nil || !d.deps.Locker.Available() {
		return true, func() {}, nil
	}
	token := uuid.NewString()
	ok, err := d.deps.Locker.SetIfNotExists(ctx, key, token, d.opts.LockTTL)
	if err != nil {
		return false, func() {}, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return false, func() {}, nil
	}
	release := func() {
		if err := d.deps.Locker.Release(context.Background(), key, token); err != nil {
			d.logger.Warn("release lock failed", zap.String("key", key), zap.Error(err))
		}
	}
	return true, release, nil
}

// RunAlerts evaluates every active alert that is due, records matches and
// sends match notifications. An alert is marked sent only after its
// notification was accepted.
func (d *Dispatcher) RunAlerts(ctx context.Context) (Stats, error) {
	ok, release, err := d.lock(ctx, cache.AlertCycleLock)
	if err != nil {
		return Stats{}, err
	}
	if !ok {
		return Stats{}, ErrCycleInProgress
	}
	defer release()

	started := d.opts.Now()
	alerts, err := d.deps.Alerts.ListActive(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list active alerts: %w", err)
	}

	outcomes := make([]outcome, len(alerts))
	tasks := make([]Task, len(alerts))
	for i := range alerts {
		outcomes[i] = outcomeFailed
		tasks[i] = func(ctx context.Context) error {
			o, err := d.processAlert(ctx, alerts[i])
			outcomes[i] = o
			if err != nil {
				d.logger.Warn("alert dispatch failed",
					zap.String("alert_id", alerts[i].ID.String()),
					zap.String("user_id", alerts[i].UserID.String()),
					zap.Error(err),
				)
			}
			return err
		}
	}
	runAll(ctx, d.opts.Workers, tasks)

	var stats Stats
	for _, o := range outcomes {
		stats.add(o)
	}
	d.logger.Info("alert cycle finished",
		zap.Int("considered", stats.Considered),
		zap.Int("skipped", stats.Skipped),
		zap.Int("matched", stats.Matched),
		zap.Int("notified", stats.Notified),
		zap.Int("failed", stats.Failed),
		zap.Duration("took", d.opts.Now().Sub(started)),
	)
	return stats, ctx.Err()
}

func (d *Dispatcher) processAlert(ctx context.Context, a alert.Alert) (outcome, error) {
	now := d.opts.Now()
	if !alert.ShouldEvaluate(a, now) {
		return outcomeSkipped, nil
	}

	pref, err := d.deps.Preferences.Get(ctx, a.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeFailed, fmt.Errorf("load preferences: %w", err)
	}

	res, err := d.deps.Resumes.Latest(ctx, a.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeFailed, fmt.Errorf("load resume: %w", err)
	}

	result, err := d.deps.Scorer.Compute(a.MatchRequest(res))
	if err != nil {
		return outcomeFailed, fmt.Errorf("compute match: %w", err)
	}
	if !result.Matched {
		return outcomeEvaluated, nil
	}

	m := match.JobMatch{
		ID:            uuid.New(),
		AlertID:       a.ID,
		CycleKey:      alert.CycleKey(a),
		UserID:        a.UserID,
		ResumeID:      res.ID,
		JobTitle:      a.JobTitle,
		Company:       a.Company,
		JobURL:        a.JobURL,
		MatchScore:    result.Score,
		MatchedSkills: result.MatchedSkills,
		MissingSkills: result.MissingSkills,
		CreatedAt:     now,
	}
	// A retry within the same cycle finds the earlier row and pushes nothing.
	matchID, recorded, err := d.deps.Matches.Create(ctx, m)
	if err != nil {
		return outcomeFailed, fmt.Errorf("record match: %w", err)
	}
	m.ID = matchID

	if recorded && d.deps.Pusher != nil && notification.ShouldPushMatch(pref, result.Score) {
		evt := ws.MatchFoundEvent{
			AlertID:       a.ID.String(),
			JobTitle:      a.JobTitle,
			Company:       a.Company,
			Score:         result.Score,
			MatchedSkills: result.MatchedSkills,
			MissingSkills: result.MissingSkills,
		}
		if err := d.deps.Pusher.PushMatch(a.UserID, evt, now); err != nil {
			d.logger.Warn("push match event failed", zap.String("alert_id", a.ID.String()), zap.Error(err))
		}
	}

	if !a.SendEmailNotification || !notification.ShouldNotifyMatch(pref, result.Score) {
		if err := d.deps.Alerts.MarkEvaluated(ctx, a.ID, now); err != nil {
			d.logger.Warn("stamp alert evaluated failed", zap.String("alert_id", a.ID.String()), zap.Error(err))
		}
		return outcomeMatched, nil
	}

	ok, release, err := d.lock(ctx, cache.AlertLockKey(a.ID, a.LastSentAt))
	if err != nil {
		return outcomeFailed, err
	}
	if !ok {
		return outcomeMatched, nil
	}

	contact, err := d.deps.Contacts.Get(ctx, a.UserID)
	if err != nil {
		release()
		return outcomeFailed, fmt.Errorf("load contact: %w", err)
	}

	msg := notify.MatchMessage{
		Recipient:     notify.Recipient{UserID: contact.UserID, Email: contact.Email, Name: contact.FullName},
		AlertID:       a.ID,
		MatchID:       m.ID,
		JobTitle:      a.JobTitle,
		Company:       a.Company,
		Score:         result.Score,
		MatchedSkills: result.MatchedSkills,
		MissingSkills: result.MissingSkills,
		Link:          d.link(a),
		CreatedAt:     now,
	}
	if err := d.deps.Notifier.NotifyMatch(ctx, msg); err != nil {
		release()
		return outcomeFailed, fmt.Errorf("notify match: %w", err)
	}

	// The lock is left to expire: the stored last_sent_at moves the alert
	// to a new cycle key.
	if _, err := d.deps.Alerts.MarkSent(ctx, a.ID, now); err != nil {
		return outcomeFailed, fmt.Errorf("mark alert sent: %w", err)
	}
	if err := d.deps.Matches.MarkNotified(ctx, m.ID, now); err != nil {
		d.logger.Warn("flag match notified failed", zap.String("match_id", m.ID.String()), zap.Error(err))
	}
	return outcomeNotified, nil
}

func (d *Dispatcher) link(a alert.Alert) string {
	if a.JobURL != "" {
		return a.JobURL
	}
	if d.opts.LinkBaseURL == "" {
		return ""
	}
	return d.opts.LinkBaseURL + "/alerts/" + a.ID.String()
}
