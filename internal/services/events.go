package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

//go:generate mockgen -source=events.go -destination=events_mock.go -package=services

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// CacheInvalidator drops the cached analytics of an owner.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// publishEvent publishes a transaction change to Kafka. Failures are logged only.
func publishEvent(ctx context.Context, w KafkaWriter, event string, userID uuid.UUID, ids []string, count int64) {
	if w == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event", event, "user_id", userID)
		return
	}

	ev := models.TransactionEvent{
		EventID:        uuid.NewString(),
		Event:          event,
		UserID:         userID.String(),
		TransactionIDs: ids,
		Count:          count,
		Timestamp:      time.Now().Unix(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event", event, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.UserID),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "event", event, "event_id", ev.EventID, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "event", event, "event_id", ev.EventID, "count", count)
	}
}

// invalidateAnalytics drops the owner's cached reports after a write.
func invalidateAnalytics(ctx context.Context, c CacheInvalidator, userID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate analytics cache", "userID", userID, "error", err)
	}
}
