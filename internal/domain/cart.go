package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart описывает корзину одного клиента: упорядоченный список строк,
// порядок вставки сохраняется для отображения.
// Инварианты: на пару (product_id, variation) существует не более одной строки,
// строк с quantity <= 0 не бывает.
type Cart struct {
	items []LineItem
}

// Totals — производные значения корзины, всегда пересчитываются заново.
type Totals struct {
	TotalItems int
	TotalPrice decimal.Decimal
}

// NewCart создаёт корзину из восстановленных строк.
// Строки с некорректным количеством отбрасываются, чтобы инвариант
// quantity >= 1 выполнялся и для данных из внешнего снапшота.
func NewCart(items []LineItem) *Cart {
	filtered := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.ProductID == "" {
			continue
		}
		filtered = append(filtered, item)
	}

	return &Cart{items: filtered}
}

// Add добавляет строку в корзину. Если строка с той же парой
// (product_id, variation) уже есть, её количество увеличивается, а цена
// остаётся зафиксированной с первого добавления. Иначе строка получает
// новый идентификатор и добавляется в конец.
// Количество <= 0 приводится к 1: локальные мутации корзины не падают.
func (c *Cart) Add(item LineItem) LineItem {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	for i := range c.items {
		if c.items[i].SameProduct(&item) {
			c.items[i].Quantity += item.Quantity
			return c.items[i]
		}
	}

	item.ID = uuid.NewString()
	c.items = append(c.items, item)
	return item
}

// Remove удаляет строку по идентификатору.
// Отсутствующая строка не является ошибкой, возвращается false.
func (c *Cart) Remove(lineID string) bool {
	for i := range c.items {
		if c.items[i].ID == lineID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}

	return false
}

// SetQuantity устанавливает количество строки абсолютным значением.
// Количество <= 0 эквивалентно удалению строки.
func (c *Cart) SetQuantity(lineID string, quantity int) (LineItem, bool) {
	if quantity <= 0 {
		c.Remove(lineID)
		return LineItem{}, false
	}

	for i := range c.items {
		if c.items[i].ID == lineID {
			c.items[i].Quantity = quantity
			return c.items[i], true
		}
	}

	return LineItem{}, false
}

// Clear опустошает корзину.
func (c *Cart) Clear() {
	c.items = nil
}

// ConsumeAll возвращает снапшот строк и опустошает корзину (оформление заказа).
func (c *Cart) ConsumeAll() []LineItem {
	snapshot := c.Items()
	c.items = nil
	return snapshot
}

// Items возвращает копию строк корзины в порядке вставки.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Totals пересчитывает производные значения корзины с нуля.
func (c *Cart) Totals() Totals {
	total := decimal.Zero
	count := 0
	for i := range c.items {
		count += c.items[i].Quantity
		total = total.Add(c.items[i].Subtotal())
	}

	return Totals{
		TotalItems: count,
		TotalPrice: total,
	}
}
