package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"skill-alert/internal/config"
	"skill-alert/internal/database"
	dbpostgres "skill-alert/internal/database/postgres"
	"skill-alert/internal/dispatch"
	"skill-alert/internal/domain/matching"
	"skill-alert/internal/domain/skill"
	"skill-alert/internal/infrastructure/cache"
	"skill-alert/internal/infrastructure/objectstore"
	"skill-alert/internal/notify"
	"skill-alert/internal/repository"
	"skill-alert/internal/ws"
)

// Container owns the long-lived dependencies shared by the API server and
// the dispatcher CLI.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Redis  *cache.Redis

	Registry  *skill.Registry
	Extractor matching.SkillExtractor
	Engine    *matching.Engine

	Alerts      *repository.PostgresAlertRepository
	Preferences *repository.PostgresPreferenceRepository
	Resumes     *repository.PostgresResumeRepository
	Matches     *repository.PostgresJobMatchRepository
	Skills      *repository.PostgresSkillRepository
	Contacts    *repository.PostgresContactRepository

	Notifier   notify.Notifier
	Hub        *ws.Hub
	Dispatcher *dispatch.Dispatcher

	closers []func() error
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: db}
	c.closers = append(c.closers, db.Close)

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.closers = append(c.closers, c.Redis.Close)

	c.Alerts = repository.NewPostgresAlertRepository(db)
	c.Preferences = repository.NewPostgresPreferenceRepository(db)
	c.Resumes = repository.NewPostgresResumeRepository(db)
	c.Matches = repository.NewPostgresJobMatchRepository(db)
	c.Skills = repository.NewPostgresSkillRepository(db)
	c.Contacts = repository.NewPostgresContactRepository(db)

	c.Registry = skill.LoadRegistry(ctx, logger.Named("registry"), c.registrySources(ctx)...)
	base := skill.NewExtractor(c.Registry)
	if c.Redis.Available() {
		c.Extractor = cache.NewCachedExtractor(base, c.Redis, cfg.Redis.TTL, logger)
	} else {
		c.Extractor = base
	}
	c.Engine = matching.NewEngine(c.Extractor, skill.NewMatcher())

	if cfg.AMQP.Enabled() {
		n, err := notify.DialAMQP(cfg.AMQP, logger.Named("notify"))
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Notifier = n
		c.closers = append(c.closers, n.Close)
	} else {
		logger.Info("amqp not configured, notifications are logged only")
		c.Notifier = notify.NewLogNotifier(logger.Named("notify"))
	}

	c.Hub = ws.NewHub(logger.Named("ws"))
	c.Dispatcher = dispatch.New(dispatch.Deps{
		Alerts:      c.Alerts,
		Preferences: c.Preferences,
		Resumes:     c.Resumes,
		Matches:     c.Matches,
		Contacts:    c.Contacts,
		Scorer:      c.Engine,
		Notifier:    c.Notifier,
		Pusher:      ws.NewMatchPusher(c.Hub),
		Locker:      c.Redis,
		Logger:      logger.Named("dispatch"),
	}, dispatch.Options{
		Workers:     cfg.Dispatch.Workers,
		LockTTL:     cfg.Dispatch.LockTTL,
		LinkBaseURL: cfg.Dispatch.LinkBaseURL,
	})

	return c, nil
}

// registrySources lists configured registry sources in priority order:
// file, S3 object, skills table.
func (c *Container) registrySources(ctx context.Context) []skill.Source {
	var sources []skill.Source
	if c.Config.Registry.File != "" {
		sources = append(sources, skill.FileSource{Path: c.Config.Registry.File})
	}
	if c.Config.Registry.S3Bucket != "" && c.Config.Registry.S3Key != "" {
		client, err := objectstore.NewClient(ctx, c.Config.Registry)
		if err != nil {
			c.Logger.Warn("s3 registry source disabled", zap.Error(err))
		} else {
			sources = append(sources, objectstore.S3Source{
				Client: client,
				Bucket: c.Config.Registry.S3Bucket,
				Key:    c.Config.Registry.S3Key,
			})
		}
	}
	return append(sources, c.Skills)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
