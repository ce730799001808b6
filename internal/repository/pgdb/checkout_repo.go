package pgdb

import (
	"context"
	"fmt"

	"github.com/bazaarfly/go-storefront/internal/repository/cartstore"
	"github.com/bazaarfly/go-storefront/internal/repository/pgdb/converter"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/tr"
	"github.com/jimlawless/whereami"
)

// CheckoutRepo архивирует снапшоты оформленных корзин.
type CheckoutRepo struct{}

func NewCheckoutRepo() *CheckoutRepo {
	return &CheckoutRepo{}
}

// Archive сохраняет снапшот в рамках транзакции из контекста.
func (r *CheckoutRepo) Archive(ctx context.Context, snapshot *usecase.CheckoutSnapshot) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := cartstore.EncodeSnapshot(snapshot.Items)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := converter.CheckoutSnapshotModel{
		CheckoutID: snapshot.CheckoutID,
		ClientID:   snapshot.ClientID,
		Items:      items,
		TotalItems: snapshot.TotalItems,
		TotalPrice: snapshot.TotalPrice.String(),
		CreatedAt:  snapshot.CreatedAt,
	}

	query := `
		INSERT INTO checkout_snapshots (
			checkout_id,
			client_id,
			items,
			total_items,
			total_price,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := tx.Exec(ctx, query,
		model.CheckoutID,
		model.ClientID,
		model.Items,
		model.TotalItems,
		model.TotalPrice,
		model.CreatedAt,
	); err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: checkout %s already archived", whereami.WhereAmI(), snapshot.CheckoutID)
		}

		return fmt.Errorf("%s: failed to archive checkout: %w", whereami.WhereAmI(), err)
	}

	return nil
}
