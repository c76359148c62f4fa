package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skill-alert/internal/dispatch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run alert and digest cycles on their cron schedules until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := container()
		if err != nil {
			return err
		}
		defer closeContainer(c)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := c.Config.Dispatch
		sched := dispatch.NewScheduler(c.Dispatcher, cfg.Spec, cfg.DigestSpec, c.Logger.Named("scheduler"))
		if err := sched.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}
