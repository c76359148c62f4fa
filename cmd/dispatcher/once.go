package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"skill-alert/internal/dispatch"
)

var skipDigests bool

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run one alert cycle and one digest cycle, then exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := container()
		if err != nil {
			return err
		}
		defer closeContainer(c)

		alerts, err := c.Dispatcher.RunAlerts(cmd.Context())
		if err != nil && !errors.Is(err, dispatch.ErrCycleInProgress) {
			return err
		}
		printStats(cmd, "alerts", alerts, err)

		if skipDigests {
			return nil
		}
		digests, err := c.Dispatcher.RunDigests(cmd.Context())
		if err != nil && !errors.Is(err, dispatch.ErrCycleInProgress) {
			return err
		}
		printStats(cmd, "digests", digests, err)
		return nil
	},
}

func init() {
	onceCmd.Flags().BoolVar(&skipDigests, "skip-digests", false, "only run the alert cycle")
}

func printStats(cmd *cobra.Command, cycle string, s dispatch.Stats, err error) {
	out := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintf(out, "%s: skipped (%v)\n", cycle, err)
		return
	}
	fmt.Fprintf(out, "%s: considered=%d skipped=%d evaluated=%d matched=%d notified=%d failed=%d\n",
		cycle, s.Considered, s.Skipped, s.Evaluated, s.Matched, s.Notified, s.Failed)
}
