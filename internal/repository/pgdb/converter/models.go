package converter

import (
	"time"

	"github.com/bazaarfly/go-storefront/internal/usecase"
)

// OutboxEventModel представляет запись таблицы cart_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64                   `db:"id"`
	EventID     string                  `db:"event_id"`
	EventType   usecase.OutboxEventType `db:"event_type"`
	ClientID    string                  `db:"client_id"`
	Payload     []byte                  `db:"payload"`
	Status      usecase.OutboxStatus    `db:"status"`
	CreatedAt   time.Time               `db:"created_at"`
	ProcessedAt *time.Time              `db:"processed_at"`
}

// CheckoutSnapshotModel представляет запись таблицы checkout_snapshots в PostgreSQL.
type CheckoutSnapshotModel struct {
	ID         int64     `db:"id"`
	CheckoutID string    `db:"checkout_id"`
	ClientID   string    `db:"client_id"`
	Items      []byte    `db:"items"`
	TotalItems int       `db:"total_items"`
	TotalPrice string    `db:"total_price"`
	CreatedAt  time.Time `db:"created_at"`
}
