package cartstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

// FileStore хранит снапшот корзины каждого клиента в JSON-файле на диске —
// аналог localStorage исходного клиента.
type FileStore struct {
	dir    string
	logger logger.Logger
}

func NewFileStore(dir string, logger logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &FileStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Load читает снапшот клиента. Отсутствующий или нечитаемый файл — пустая корзина.
func (f *FileStore) Load(_ context.Context, clientID string) ([]domain.LineItem, error) {
	data, err := os.ReadFile(f.path(clientID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		f.logger.Warnf("cart snapshot read failed, treating as empty. client_id: %s, error: %v", clientID, err)
		return nil, nil
	}

	items := DecodeSnapshot(data)
	if items == nil && len(data) > 0 {
		f.logger.Warnf("cart snapshot unparsable, treating as empty. client_id: %s", clientID)
	}

	return items, nil
}

// Save атомарно перезаписывает снапшот клиента целиком.
func (f *FileStore) Save(_ context.Context, clientID string, items []domain.LineItem) error {
	data, err := EncodeSnapshot(items)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	path := f.path(clientID)
	tmp := fmt.Sprintf("%s.tmp", path)

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет снапшот клиента. Отсутствие файла не является ошибкой.
func (f *FileStore) Delete(_ context.Context, clientID string) error {
	if err := os.Remove(f.path(clientID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// path возвращает путь файла снапшота; идентификатор клиента экранируется.
func (f *FileStore) path(clientID string) string {
	return filepath.Join(f.dir, url.PathEscape(clientID)+".json")
}
