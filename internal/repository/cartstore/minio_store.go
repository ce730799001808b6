package cartstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/bazaarfly/go-storefront/internal/cfg"
	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// MinioStore хранит снапшот корзины каждого клиента одним объектом в бакете.
type MinioStore struct {
	mc     *minio.Client
	cfg    *cfg.MinIOCfg
	logger logger.Logger
}

func NewMinioStore(mc *minio.Client, cfg *cfg.MinIOCfg, logger logger.Logger) *MinioStore {
	return &MinioStore{
		mc:     mc,
		cfg:    cfg,
		logger: logger,
	}
}

// Load читает снапшот клиента. Отсутствующий объект или нечитаемое содержимое — пустая корзина.
func (s *MinioStore) Load(ctx context.Context, clientID string) ([]domain.LineItem, error) {
	obj, err := s.mc.GetObject(ctx, s.cfg.BucketName, s.objectKey(clientID), minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
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

// Save полностью перезаписывает объект снапшота.
func (s *MinioStore) Save(ctx context.Context, clientID string, items []domain.LineItem) error {
	data, err := EncodeSnapshot(items)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	reader := bytes.NewReader(data)
	_, err = s.mc.PutObject(ctx, s.cfg.BucketName, s.objectKey(clientID), reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет объект снапшота клиента.
func (s *MinioStore) Delete(ctx context.Context, clientID string) error {
	if err := s.mc.RemoveObject(ctx, s.cfg.BucketName, s.objectKey(clientID), minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *MinioStore) objectKey(clientID string) string {
	return fmt.Sprintf("carts/%s.json", clientID)
}
