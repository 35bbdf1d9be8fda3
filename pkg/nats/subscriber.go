package nats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fernando061/software-architecture-styles/pkg/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// Handler processes the payload of one message. A returned error naks the message.
type Handler func(ctx context.Context, subject string, data []byte) error

// ackableMsg is the subset of jetstream.Msg a worker needs.
type ackableMsg interface {
	Subject() string
	Data() []byte
	Ack() error
	Nak() error
}

// Subscribe creates (or updates) a durable pull consumer on stream and runs cfg.Workers workers
// feeding its messages to handle until ctx is cancelled.
func Subscribe(ctx context.Context, js jetstream.JetStream, stream string, cfg config.SubscriberConfig, handle Handler) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		FilterSubject: cfg.Subject,
		Durable:       cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for range cfg.Workers {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg, handle)
		})
	}
	return g.Wait()
}

func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.Timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				slog.ErrorContext(ctx, "failed to fetch messages", "error", err)
				time.Sleep(cfg.Interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, handle)
			}
		}
	}
}

func handleMessage(ctx context.Context, msg ackableMsg, handle Handler) {
	if msg == nil {
		slog.ErrorContext(ctx, "received nil message")
		return
	}
	if err := handle(ctx, msg.Subject(), msg.Data()); err != nil {
		slog.ErrorContext(ctx, "failed to handle message", "error", err, "subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			slog.ErrorContext(ctx, "failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		slog.ErrorContext(ctx, "failed to ack message", "error", err)
	}
}
