package cartstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarfly/go-storefront/internal/cfg"
	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/pkg/clients"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// RedisStore хранит снапшот корзины каждого клиента в одном Redis-ключе.
type RedisStore struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewRedisStore(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Load читает снапшот клиента. Отсутствующий ключ или нечитаемое значение — пустая корзина.
func (s *RedisStore) Load(ctx context.Context, clientID string) ([]domain.LineItem, error) {
	data, err := s.client.Client.Get(ctx, s.cartKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items := DecodeSnapshot(data)
	if items == nil && len(data) > 0 {
		s.logger.Warnf("cart snapshot unparsable, treating as empty. client_id: %s", clientID)
	}

	return items, nil
}

// Save полностью перезаписывает снапшот клиента.
// CartTTL = 0 означает хранение без срока годности.
func (s *RedisStore) Save(ctx context.Context, clientID string, items []domain.LineItem) error {
	data, err := EncodeSnapshot(items)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, s.cartKey(clientID), data, s.cfg.CartTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет снапшот клиента.
func (s *RedisStore) Delete(ctx context.Context, clientID string) error {
	if err := s.client.Client.Del(ctx, s.cartKey(clientID)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// cartKey возвращает Redis-ключ снапшота корзины клиента
func (s *RedisStore) cartKey(clientID string) string {
	return fmt.Sprintf("cart:%s", clientID)
}
