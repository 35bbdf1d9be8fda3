package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/fernando061/software-architecture-styles/internal/product/audit"
	"github.com/fernando061/software-architecture-styles/pkg/bootstrap"
	"github.com/fernando061/software-architecture-styles/pkg/messaging/events"
	pkgnats "github.com/fernando061/software-architecture-styles/pkg/nats"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log the product events published on NATS",
	Long:  "Consumes the products stream with a durable consumer and writes one log record per created, updated or deleted product.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.NATS.Enabled {
			return errors.New("nats is disabled, set nats.enabled to watch product events")
		}
		if err := cfg.Watch.Validate(); err != nil {
			return fmt.Errorf("invalid watch configuration: %w", err)
		}

		logger := bootstrap.NewLogger(cfg.Log.Level)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		nc, err := pkgnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
		if err != nil {
			return err
		}
		defer nc.Close()
		js, err := pkgnats.NewJetStreamContext(nc)
		if err != nil {
			return err
		}
		if err := pkgnats.EnsureStream(ctx, js, cfg.NATS.Stream, events.ProductsSubjects); err != nil {
			return err
		}

		logger.Info("Watching product events", slog.String("stream", cfg.NATS.Stream), slog.String("consumer", cfg.Watch.Consumer))
		err = pkgnats.Subscribe(ctx, js, cfg.NATS.Stream, cfg.Watch, audit.NewAuditor(logger).Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscriber failed: %w", err)
		}
		logger.Info("subscriber stopped gracefully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
