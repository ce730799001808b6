package domain

import "github.com/shopspring/decimal"

// LineItem описывает одну строку корзины.
type LineItem struct {
	ID        string          // идентификатор строки, генерируется при вставке
	ProductID string          // идентификатор товара в каталоге
	Title     string
	Slug      string
	Price     decimal.Decimal // цена за единицу на момент первого добавления
	Quantity  int             // всегда >= 1
	Image     *string
	Variation *Variation
}

func NewLineItem(productID, title, slug string, price decimal.Decimal, quantity int, image *string, variation *Variation) *LineItem {
	return &LineItem{
		ProductID: productID,
		Title:     title,
		Slug:      slug,
		Price:     price,
		Quantity:  quantity,
		Image:     image,
		Variation: variation,
	}
}

// Subtotal возвращает стоимость строки (цена × количество).
func (l *LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SameProduct проверяет, описывают ли две строки один товар в одной вариации.
func (l *LineItem) SameProduct(other *LineItem) bool {
	return l.ProductID == other.ProductID && l.Variation.Equal(other.Variation)
}
