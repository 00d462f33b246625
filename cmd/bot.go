package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/eduprofile/internal/bot"
	"github.com/example/eduprofile/internal/database"
	"github.com/example/eduprofile/internal/scheduler"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (and the analysis scheduler when enabled)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := bot.DefaultConfig()
		cfg.Token = a.cfg.Telegram.Token
		cfg.AdminUserIDs = a.cfg.Telegram.AdminUserIDs

		b, err := bot.New(cfg,
			database.NewStudentRepository(),
			database.NewAnalysisRepository(),
			database.NewTestResultRepository(),
			a.engine,
			a.log.With("component", "bot"))
		if err != nil {
			return err
		}

		if err := b.Connect(); err != nil {
			return err
		}

		if a.cfg.Scheduler.Enabled {
			s, err := newScheduler(a, b)
			if err != nil {
				return err
			}
			defer s.Stop()
		}

		a.log.Info("bot started, press Ctrl+C to stop")
		return b.Start(ctx)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-analyse every student on ANALYSIS_SCHEDULE without the bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newScheduler(a, nil)
		if err != nil {
			return err
		}
		defer s.Stop()

		if now, _ := cmd.Flags().GetBool("now"); now {
			if err := s.RunNow(ctx); err != nil {
				return err
			}
		}

		<-ctx.Done()
		a.log.Info("scheduler stopped")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Bool("now", false, "Run one pass immediately before waiting for the schedule")
}

func newScheduler(a *app, notifier scheduler.Notifier) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(a.cfg.Scheduler.Timezone)
	if err != nil {
		return nil, err
	}
	s := scheduler.New(a.engine, notifier, loc, a.log.With("component", "scheduler"))
	if err := s.Start(a.cfg.Scheduler.Schedule); err != nil {
		return nil, err
	}
	return s, nil
}
