package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skill-alert/internal/app"
	"skill-alert/internal/config"
	applog "skill-alert/internal/pkg/logger"
)

const name = "skill-alert-dispatcher"

var (
	cfgFile string
	debug   bool
	jsonLog bool

	rootCmd = &cobra.Command{
		Use:          name,
		Short:        "Evaluates job alerts against resumes and sends match and digest notifications",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is CONFIG_FILE or environment only)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")

	rootCmd.AddCommand(runCmd, onceCmd, migrateCmd, seedCmd)
}

// setup loads config and builds the logger. Flags only ever switch
// debug and json output on.
func setup() (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Log.Debug = cfg.Log.Debug || debug
	cfg.Log.JSON = cfg.Log.JSON || jsonLog

	logger, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return cfg, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func container() (*app.Container, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return c, nil
}

func closeContainer(c *app.Container) {
	if err := c.Close(); err != nil {
		c.Logger.Warn("cleanup error", zap.Error(err))
	}
	_ = c.Logger.Sync()
}
