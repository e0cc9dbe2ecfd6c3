package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gooviral.app/checkout/driver"
	"gooviral.app/checkout/models"
)

type Service interface {
	Create(ctx context.Context, event *models.Event) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventAsProcessed(ctx context.Context, eventID string) error
}

type service struct {
	repo               Repository
	transactionManager *driver.TransactionManager
}

func NewService(repo Repository, tm *driver.TransactionManager) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
	}
}

func (s *service) Create(ctx context.Context, event *models.Event) error {
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, event)
	}); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// IsEventProcessed reports whether the event id has already been handled.
// An unknown event id is not an error; it simply has not been seen yet.
func (s *service) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var processed bool
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		event, err := s.repo.GetByID(ctx, tx, eventID)
		if err != nil {
			return err
		}
		processed = event.Processed
		return nil
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get event: %w", err)
	}
	return processed, nil
}

func (s *service) MarkEventAsProcessed(ctx context.Context, eventID string) error {
	return s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.MarkAsProcessed(ctx, tx, eventID)
	})
}
