package pgdb

import (
	"context"
	"errors"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/internal/repository/cartstore"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CartRepo хранит снапшот корзины клиента одной строкой таблицы carts.
// Save всегда перезаписывает снапшот целиком.
type CartRepo struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewCartRepo(pool *pgxpool.Pool, logger logger.Logger) *CartRepo {
	return &CartRepo{
		pool:   pool,
		logger: logger,
	}
}

func (r *CartRepo) Load(ctx context.Context, clientID string) ([]domain.LineItem, error) {
	query := `SELECT snapshot FROM carts WHERE client_id = $1`

	var snapshot []byte
	err := r.pool.QueryRow(ctx, query, clientID).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cartstore.DecodeSnapshot(snapshot), nil
}

func (r *CartRepo) Save(ctx context.Context, clientID string, items []domain.LineItem) error {
	snapshot, err := cartstore.EncodeSnapshot(items)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO carts (client_id, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (client_id)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, clientID, snapshot); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CartRepo) Delete(ctx context.Context, clientID string) error {
	query := `DELETE FROM carts WHERE client_id = $1`

	if _, err := r.pool.Exec(ctx, query, clientID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
