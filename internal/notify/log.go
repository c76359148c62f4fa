package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier records notifications in the log. It is used when no broker
// is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyMatch(_ context.Context, msg MatchMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	n.logger.Info("match notification",
		zap.String("user_id", msg.Recipient.UserID.String()),
		zap.String("alert_id", msg.AlertID.String()),
		zap.String("job_title", msg.JobTitle),
		zap.Float64("score", msg.Score),
		zap.Strings("matched_skills", msg.MatchedSkills),
		zap.Strings("missing_skills", msg.MissingSkills),
	)
	return nil
}

func (n *LogNotifier) NotifyDigest(_ context.Context, msg DigestMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	n.logger.Info("digest notification",
		zap.String("user_id", msg.Recipient.UserID.String()),
		zap.Int("matches", len(msg.Matches)),
	)
	return nil
}
