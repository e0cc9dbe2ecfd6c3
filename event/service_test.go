package event

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"gooviral.app/checkout/driver"
	"gooviral.app/checkout/models"
)

// fakeTx satisfies pgx.Tx for the methods the transaction manager touches;
// everything else panics via the embedded nil interface.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type fakePool struct {
	txs []*fakeTx
}

func (p *fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (p *fakePool) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	p.txs = append(p.txs, tx)
	return tx, nil
}

func (p *fakePool) Close() {}

// fakeRepository is a map-backed Repository; absent ids return
// pgx.ErrNoRows the same way a real row lookup would.
type fakeRepository struct {
	events map[string]*models.Event
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{events: make(map[string]*models.Event)}
}

func (r *fakeRepository) Create(_ context.Context, _ pgx.Tx, event *models.Event) error {
	if _, exists := r.events[event.ID]; exists {
		return nil
	}
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, _ pgx.Tx, id string) (*models.Event, error) {
	event, exists := r.events[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return event, nil
}

func (r *fakeRepository) MarkAsProcessed(_ context.Context, _ pgx.Tx, id string) error {
	event, exists := r.events[id]
	if !exists {
		return pgx.ErrNoRows
	}
	event.Processed = true
	return nil
}

func newTestService(t *testing.T) (Service, *fakeRepository, *fakePool) {
	t.Helper()

	repo := newFakeRepository()
	pool := &fakePool{}
	tm := driver.NewTransactionManager(pool, zap.NewNop())
	return NewService(repo, tm), repo, pool
}

func TestIsEventProcessedUnknownEvent(t *testing.T) {
	svc, _, _ := newTestService(t)

	processed, err := svc.IsEventProcessed(context.Background(), "evt_unknown")
	if err != nil {
		t.Fatalf("IsEventProcessed: %v", err)
	}
	if processed {
		t.Error("unknown event reported as processed")
	}
}

func TestEventLifecycle(t *testing.T) {
	svc, repo, pool := newTestService(t)

	now := time.Now()
	err := svc.Create(context.Background(), &models.Event{
		ID:        "evt_1",
		Type:      stripe.EventTypeCheckoutSessionCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	processed, err := svc.IsEventProcessed(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("IsEventProcessed: %v", err)
	}
	if processed {
		t.Error("unprocessed event reported as processed")
	}

	if err = svc.MarkEventAsProcessed(context.Background(), "evt_1"); err != nil {
		t.Fatalf("MarkEventAsProcessed: %v", err)
	}

	processed, err = svc.IsEventProcessed(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("IsEventProcessed: %v", err)
	}
	if !processed {
		t.Error("processed event reported as unprocessed")
	}

	for i, tx := range pool.txs {
		if !tx.committed {
			t.Errorf("transaction %d was not committed", i)
		}
		if tx.rolledBack {
			t.Errorf("transaction %d was rolled back", i)
		}
	}
	if !repo.events["evt_1"].Processed {
		t.Error("repository row not marked processed")
	}
}

func TestMarkEventAsProcessedRollsBackOnError(t *testing.T) {
	svc, _, pool := newTestService(t)

	if err := svc.MarkEventAsProcessed(context.Background(), "evt_missing"); err == nil {
		t.Fatal("expected error for unknown event")
	}

	if len(pool.txs) != 1 {
		t.Fatalf("began %d transactions, want 1", len(pool.txs))
	}
	if pool.txs[0].committed {
		t.Error("failed transaction was committed")
	}
	if !pool.txs[0].rolledBack {
		t.Error("failed transaction was not rolled back")
	}
}
