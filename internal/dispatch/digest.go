package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-alert/internal/domain/notification"
	"skill-alert/internal/infrastructure/cache"
	"skill-alert/internal/notify"
)

// RunDigests sends one digest per user whose digest is due and whose
// preferred delivery time has been reached, covering matches not yet
// included in an earlier digest.
func (d *Dispatcher) RunDigests(ctx context.Context) (Stats, error) {
	ok, release, err := d.lock(ctx, cache.DigestCycleLock)
	if err != nil {
		return Stats{}, err
	}
	if !ok {
		return Stats{}, ErrCycleInProgress
	}
	defer release()

	prefs, err := d.deps.Preferences.ListDigestCandidates(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list digest candidates: %w", err)
	}

	outcomes := make([]outcome, len(prefs))
	tasks := make([]Task, len(prefs))
	for i := range prefs {
		outcomes[i] = outcomeFailed
		tasks[i] = func(ctx context.Context) error {
			o, err := d.processDigest(ctx, prefs[i])
			outcomes[i] = o
			if err != nil {
				d.logger.Warn("digest dispatch failed", zap.String("user_id", prefs[i].UserID.String()), zap.Error(err))
			}
			return err
		}
	}
	runAll(ctx, d.opts.Workers, tasks)

	var stats Stats
	for _, o := range outcomes {
		stats.add(o)
	}
	d.logger.Info("digest cycle finished",
		zap.Int("considered", stats.Considered),
		zap.Int("skipped", stats.Skipped),
		zap.Int("notified", stats.Notified),
		zap.Int("failed", stats.Failed),
	)
	return stats, ctx.Err()
}

func (d *Dispatcher) processDigest(ctx context.Context, p notification.Preference) (outcome, error) {
	now := d.opts.Now()
	if !notification.DigestDue(p, now) {
		return outcomeSkipped, nil
	}

	matches, err := d.deps.Matches.ListUndigested(ctx, p.UserID, d.opts.DigestLimit)
	if err != nil {
		return outcomeFailed, fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		return outcomeSkipped, nil
	}

	contact, err := d.deps.Contacts.Get(ctx, p.UserID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("load contact: %w", err)
	}

	items := make([]notify.DigestItem, 0, len(matches))
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		link := m.JobURL
		if link == "" && d.opts.LinkBaseURL != "" {
			link = d.opts.LinkBaseURL + "/alerts/" + m.AlertID.String()
		}
		items = append(items, notify.DigestItem{
			MatchID:   m.ID,
			JobTitle:  m.JobTitle,
			Company:   m.Company,
			Score:     m.MatchScore,
			Link:      link,
			MatchedAt: m.CreatedAt,
		})
		ids = append(ids, m.ID)
	}

	msg := notify.DigestMessage{
		Recipient: notify.Recipient{UserID: contact.UserID, Email: contact.Email, Name: contact.FullName},
		Matches:   items,
		CreatedAt: now,
	}
	if err := d.deps.Notifier.NotifyDigest(ctx, msg); err != nil {
		return outcomeFailed, fmt.Errorf("notify digest: %w", err)
	}

	if err := d.deps.Preferences.MarkDigestSent(ctx, p.UserID, notification.WindowStart(p, now)); err != nil {
		return outcomeFailed, fmt.Errorf("mark digest sent: %w", err)
	}
	if err := d.deps.Matches.MarkDigested(ctx, ids, now); err != nil {
		d.logger.Warn("flag matches digested failed", zap.String("user_id", p.UserID.String()), zap.Error(err))
	}
	return outcomeNotified, nil
}
