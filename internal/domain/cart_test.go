package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(productID string, quantity int, price int64, variation *Variation) LineItem {
	return *NewLineItem(productID, "Товар "+productID, productID, decimal.NewFromInt(price), quantity, nil, variation)
}

func TestCart_Add_MergesSameProductAndVariation(t *testing.T) {
	cart := NewCart(nil)

	first := cart.Add(newTestItem("P1", 2, 100, nil))
	second := cart.Add(newTestItem("P1", 3, 100, nil))

	require.Equal(t, 1, cart.Len())
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, cart.Items()[0].Quantity)
}

func TestCart_Add_KeepsPriceFromFirstInsertion(t *testing.T) {
	cart := NewCart(nil)

	cart.Add(newTestItem("P1", 2, 100, nil))
	cart.Add(newTestItem("P1", 3, 999, nil))

	require.Equal(t, 1, cart.Len())
	totals := cart.Totals()
	assert.Equal(t, 5, totals.TotalItems)
	assert.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(500)),
		"expected 500, got %s", totals.TotalPrice)
}

func TestCart_Add_DistinctVariationsProduceDistinctLines(t *testing.T) {
	cart := NewCart(nil)

	cart.Add(newTestItem("P1", 1, 100, NewVariation("red", "M", "")))
	cart.Add(newTestItem("P1", 1, 100, NewVariation("blue", "M", "")))
	cart.Add(newTestItem("P1", 1, 100, nil))

	assert.Equal(t, 3, cart.Len())
}

func TestCart_Add_NilVariationNotEqualToEmpty(t *testing.T) {
	cart := NewCart(nil)

	cart.Add(newTestItem("P1", 1, 100, nil))
	cart.Add(newTestItem("P1", 1, 100, &Variation{}))

	assert.Equal(t, 2, cart.Len())
}

func TestCart_Add_ClampsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(nil)

	line := cart.Add(newTestItem("P1", 0, 100, nil))

	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 1, cart.Totals().TotalItems)
}

func TestCart_Add_PreservesInsertionOrder(t *testing.T) {
	cart := NewCart(nil)

	cart.Add(newTestItem("P3", 1, 10, nil))
	cart.Add(newTestItem("P1", 1, 10, nil))
	cart.Add(newTestItem("P2", 1, 10, nil))
	cart.Add(newTestItem("P1", 1, 10, nil)) // merge, позиция не меняется

	items := cart.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "P3", items[0].ProductID)
	assert.Equal(t, "P1", items[1].ProductID)
	assert.Equal(t, "P2", items[2].ProductID)
}

func TestCart_SetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := NewCart(nil)
	line := cart.Add(newTestItem("P1", 2, 100, nil))

	_, ok := cart.SetQuantity(line.ID, 0)

	assert.False(t, ok)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, cart.Totals().TotalItems)
}

func TestCart_SetQuantity_IsAbsolute(t *testing.T) {
	cart := NewCart(nil)
	line := cart.Add(newTestItem("P1", 2, 100, nil))

	updated, ok := cart.SetQuantity(line.ID, 7)

	require.True(t, ok)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, 7, cart.Totals().TotalItems)
}

func TestCart_SetQuantity_UnknownLineIsNoop(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(newTestItem("P1", 2, 100, nil))

	_, ok := cart.SetQuantity("missing", 5)

	assert.False(t, ok)
	assert.Equal(t, 2, cart.Totals().TotalItems)
}

func TestCart_Remove_UnknownLineIsNoop(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(newTestItem("P1", 1, 100, nil))

	assert.False(t, cart.Remove("missing"))
	assert.Equal(t, 1, cart.Len())
}

func TestCart_Totals_RecomputedFromScratch(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(newTestItem("P1", 2, 100, nil))
	line := cart.Add(newTestItem("P2", 1, 250, nil))

	totals := cart.Totals()
	require.Equal(t, 3, totals.TotalItems)
	require.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(450)))

	cart.SetQuantity(line.ID, 4)

	totals = cart.Totals()
	assert.Equal(t, 6, totals.TotalItems)
	assert.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(1200)))
}

func TestCart_ConsumeAll_DrainsCart(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(newTestItem("P1", 2, 100, nil))
	cart.Add(newTestItem("P2", 1, 50, nil))

	snapshot := cart.ConsumeAll()

	assert.Len(t, snapshot, 2)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, cart.Totals().TotalItems)
}

func TestNewCart_DropsInvalidRestoredLines(t *testing.T) {
	items := []LineItem{
		newTestItem("P1", 2, 100, nil),
		newTestItem("P2", 0, 100, nil), // повреждённый снапшот
		newTestItem("", 1, 100, nil),
	}
	items[0].ID = "line-1"

	cart := NewCart(items)

	require.Equal(t, 1, cart.Len())
	assert.Equal(t, "P1", cart.Items()[0].ProductID)
}

// Сценарий из требований: добавление, слияние с сохранением цены, обнуление.
func TestCart_Scenario(t *testing.T) {
	cart := NewCart(nil)

	line := cart.Add(newTestItem("P1", 2, 100, nil))
	require.Equal(t, 1, cart.Len())
	require.Equal(t, 2, cart.Totals().TotalItems)
	require.True(t, cart.Totals().TotalPrice.Equal(decimal.NewFromInt(200)))

	cart.Add(newTestItem("P1", 3, 999, nil))
	require.Equal(t, 1, cart.Len())
	require.Equal(t, 5, cart.Totals().TotalItems)
	require.True(t, cart.Totals().TotalPrice.Equal(decimal.NewFromInt(500)))

	cart.SetQuantity(line.ID, 0)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, cart.Totals().TotalItems)
}
