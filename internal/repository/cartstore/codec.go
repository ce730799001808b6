package cartstore

import (
	"encoding/json"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotVersion — текущая версия формата снапшота.
// Исходный клиент писал голый массив строк без конверта, он читается как версия 0.
const snapshotVersion = 1

// LineItemModel — сериализуемая строка снапшота корзины.
// Формат совместим с исходным клиентом: price — число, image и variation допускают null.
type LineItemModel struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Price     json.Number       `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     *string           `json:"image"`
	Variation *domain.Variation `json:"variation"`
}

type snapshotEnvelope struct {
	Version int             `json:"version"`
	Items   []LineItemModel `json:"items"`
}

// EncodeSnapshot сериализует строки корзины в версионированный конверт.
func EncodeSnapshot(items []domain.LineItem) ([]byte, error) {
	models := make([]LineItemModel, 0, len(items))
	for _, item := range items {
		models = append(models, LineItemModel{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Slug:      item.Slug,
			Price:     json.Number(item.Price.String()),
			Quantity:  item.Quantity,
			Image:     item.Image,
			Variation: item.Variation,
		})
	}

	return json.Marshal(snapshotEnvelope{
		Version: snapshotVersion,
		Items:   models,
	})
}

// DecodeSnapshot восстанавливает строки корзины из сохранённого снапшота.
// Принимает конверт и legacy-массив без версии. Нечитаемый снапшот
// восстанавливается как пустая корзина: ошибка парсинга не возвращается.
func DecodeSnapshot(data []byte) []domain.LineItem {
	if len(data) == 0 {
		return nil
	}

	var envelope snapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Version == snapshotVersion {
		return toLineItems(envelope.Items)
	}

	// legacy-формат: голый массив строк (версия 0)
	var models []LineItemModel
	if err := json.Unmarshal(data, &models); err == nil {
		return toLineItems(models)
	}

	return nil
}

func toLineItems(models []LineItemModel) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(models))
	for _, model := range models {
		price, err := decimal.NewFromString(model.Price.String())
		if err != nil {
			continue // повреждённая строка отбрасывается
		}

		items = append(items, domain.LineItem{
			ID:        model.ID,
			ProductID: model.ProductID,
			Title:     model.Title,
			Slug:      model.Slug,
			Price:     price,
			Quantity:  model.Quantity,
			Image:     model.Image,
			Variation: model.Variation,
		})
	}

	return items
}
