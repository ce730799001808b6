package pgdb

import (
	"context"

	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// EventJournal оборачивает запись событий и архивов в транзакции PostgreSQL.
// Транзакция кладётся в контекст и подхватывается репозиториями через tr.TxFromCtx.
type EventJournal struct {
	dbPool   transaction.Transactional
	outbox   usecase.OutboxRepository
	checkout usecase.CheckoutRepository
}

func NewEventJournal(
	dbPool transaction.Transactional,
	outbox usecase.OutboxRepository,
	checkout usecase.CheckoutRepository,
) *EventJournal {
	return &EventJournal{
		dbPool:   dbPool,
		outbox:   outbox,
		checkout: checkout,
	}
}

// RecordEvent фиксирует одно событие корзины в журнале.
func (j *EventJournal) RecordEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	const op = "EventJournal.RecordEvent"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, j.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = j.outbox.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// RecordCheckout атомарно архивирует снапшот оформления и событие о нём.
// Либо записываются оба, либо ни одного.
func (j *EventJournal) RecordCheckout(ctx context.Context, snapshot *usecase.CheckoutSnapshot, event *usecase.OutboxEvent) error {
	const op = "EventJournal.RecordCheckout"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, j.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = j.checkout.Archive(ctx, snapshot); err != nil {
		return e.Wrap(op, err)
	}

	if _, err = j.outbox.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
