package event

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"gooviral.app/checkout/models"
)

const processedCacheTTL = 24 * time.Hour

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, event *models.Event) error
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Event, error)
	MarkAsProcessed(ctx context.Context, tx pgx.Tx, id string) error
}

type repository struct {
	cache  *redis.Client
	logger *zap.Logger
}

func NewRepository(cache *redis.Client, logger *zap.Logger) (Repository, error) {
	return &repository{
		cache:  cache,
		logger: logger,
	}, nil
}

func processedKey(id string) string {
	return fmt.Sprintf("event:processed:%s", id)
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, event *models.Event) error {

	_, err := tx.Exec(ctx,
		`INSERT INTO events (id, type, processed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		event.ID, string(event.Type), event.Processed, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Event, error) {

	// Redis fast path: a cache hit means the event was already processed,
	// so the row does not need to be read.
	if r.cache != nil {
		hit, err := r.cache.Exists(ctx, processedKey(id)).Result()
		if err != nil {
			r.logger.Warn("Event cache lookup failed", zap.Error(err))
		} else if hit > 0 {
			return &models.Event{ID: id, Processed: true}, nil
		}
	}

	var event models.Event
	var eventType string
	err := tx.QueryRow(ctx,
		`SELECT id, type, processed, created_at, updated_at FROM events WHERE id = $1`,
		id).Scan(&event.ID, &eventType, &event.Processed, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}

	event.Type = stripe.EventType(eventType)
	return &event, nil
}

func (r *repository) MarkAsProcessed(ctx context.Context, tx pgx.Tx, id string) error {

	_, err := tx.Exec(ctx,
		`UPDATE events SET processed = TRUE, updated_at = $2 WHERE id = $1`,
		id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}

	if r.cache != nil {
		if err = r.cache.Set(ctx, processedKey(id), 1, processedCacheTTL).Err(); err != nil {
			r.logger.Warn("Failed to cache processed event", zap.Error(err))
		}
	}

	return nil
}
