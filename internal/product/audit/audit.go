// Package audit logs the product events published on NATS.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fernando061/software-architecture-styles/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type Auditor struct {
	logger *slog.Logger
}

func NewAuditor(logger *slog.Logger) *Auditor {
	return &Auditor{logger: logger.With("component", "audit")}
}

// Handle decodes the event published on subject and logs it in the trace of the call that produced it.
// Subjects outside the product events are logged and skipped.
func (a *Auditor) Handle(ctx context.Context, subject string, data []byte) error {
	switch subject {
	case events.ProductCreatedSubject:
		var e events.ProductCreatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to decode %s: %w", subject, err)
		}
		a.logger.InfoContext(extract(ctx, e.Carrier), "product created",
			slog.Int64("product_id", e.ProductID),
			slog.String("name", e.Name),
			slog.String("price", e.Price.StringFixed(2)),
			slog.String("at", e.CreatedAt.Format(time.RFC3339)))
	case events.ProductUpdatedSubject:
		var e events.ProductUpdatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to decode %s: %w", subject, err)
		}
		a.logger.InfoContext(extract(ctx, e.Carrier), "product updated",
			slog.Int64("product_id", e.ProductID),
			slog.String("name", e.Name),
			slog.String("price", e.Price.StringFixed(2)),
			slog.String("at", e.UpdatedAt.Format(time.RFC3339)))
	case events.ProductDeletedSubject:
		var e events.ProductDeletedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to decode %s: %w", subject, err)
		}
		a.logger.InfoContext(extract(ctx, e.Carrier), "product deleted",
			slog.Int64("product_id", e.ProductID),
			slog.String("at", e.DeletedAt.Format(time.RFC3339)))
	default:
		a.logger.WarnContext(ctx, "skipping unknown event", slog.String("subject", subject))
	}
	return nil
}

func extract(ctx context.Context, carrier propagation.MapCarrier) context.Context {
	if len(carrier) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
