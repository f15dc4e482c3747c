package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage the simulated new-listing alerts",
}

var notifyEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Opt in to alerts",
	Run: func(_ *cobra.Command, _ []string) {
		withSimulator(func(ctx context.Context, s *session, sim *notify.Simulator) {
			if err := sim.Enable(ctx); err != nil {
				s.logger.Fatal("enabling notifications", zap.Error(err))
			}
		})
	},
}

var notifyDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Opt out of alerts",
	Run: func(_ *cobra.Command, _ []string) {
		withSimulator(func(ctx context.Context, s *session, sim *notify.Simulator) {
			if err := sim.Disable(ctx); err != nil {
				s.logger.Fatal("disabling notifications", zap.Error(err))
			}
			s.logger.Info("notifications disabled")
		})
	},
}

var notifyWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the alert simulation until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		withSimulator(watch)
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyEnableCmd, notifyDisableCmd, notifyWatchCmd)

	notifyWatchCmd.Flags().String("schedule", "", "cron schedule of the checks (default \"@every 30s\")")
	viper.BindPFlag("notifications.schedule", notifyWatchCmd.Flags().Lookup("schedule"))
}

func withSimulator(fn func(ctx context.Context, s *session, sim *notify.Simulator)) {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	var notifier notify.Notifier = notify.NewConsoleNotifier(os.Stdout)
	if viper.GetBool("json") {
		notifier = notify.NewLogNotifier(s.logger)
	}

	sim := notify.NewSimulator(s.store, notifier,
		notify.WithLogger(s.logger),
		notify.WithSchedule(s.config.Notifications.Schedule),
		notify.WithChance(s.config.Notifications.Chance),
	)

	fn(ctx, s, sim)
}

func watch(ctx context.Context, s *session, sim *notify.Simulator) {
	enabled, err := sim.Enabled(ctx)
	if err != nil {
		s.logger.Fatal("reading notifications flag", zap.Error(err))
	}
	if !enabled {
		s.logger.Info("notifications are disabled", zap.String("hint", "run 'vagas notify enable' first"))
		return
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		s.logger.Fatal("starting notification simulation", zap.Error(err))
	}

	<-ctx.Done()
	sim.Stop()
}
