package cartstore

import (
	"encoding/json"
	"testing"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []domain.LineItem {
	image := "https://cdn.example.com/p1.jpg"
	return []domain.LineItem{
		{
			ID:        "l1",
			ProductID: "P1",
			Title:     "Футболка",
			Slug:      "t-shirt",
			Price:     decimal.RequireFromString("599.99"),
			Quantity:  2,
			Image:     &image,
			Variation: domain.NewVariation("red", "M", ""),
		},
		{
			ID:        "l2",
			ProductID: "P2",
			Title:     "Кружка",
			Slug:      "mug",
			Price:     decimal.NewFromInt(150),
			Quantity:  1,
		},
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	items := sampleItems()

	data, err := EncodeSnapshot(items)
	require.NoError(t, err)

	restored := DecodeSnapshot(data)

	require.Len(t, restored, 2)
	assert.Equal(t, items[0].ID, restored[0].ID)
	assert.Equal(t, items[0].ProductID, restored[0].ProductID)
	assert.True(t, items[0].Price.Equal(restored[0].Price))
	assert.Equal(t, items[0].Variation, restored[0].Variation)
	assert.Equal(t, items[0].Image, restored[0].Image)
	assert.Equal(t, items[1].Variation, restored[1].Variation)
}

func TestSnapshot_WireLayout(t *testing.T) {
	data, err := EncodeSnapshot(sampleItems())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, "1", string(raw["version"]))

	var lines []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["items"], &lines))
	require.Len(t, lines, 2)

	// price — число без кавычек, отсутствующие image/variation — null
	assert.Equal(t, "599.99", string(lines[0]["price"]))
	assert.Equal(t, "null", string(lines[1]["image"]))
	assert.Equal(t, "null", string(lines[1]["variation"]))
}

func TestDecodeSnapshot_LegacyBareArray(t *testing.T) {
	legacy := `[{"id":"P1-123","product_id":"P1","title":"Товар","slug":"p1","price":100,"quantity":2,"variation":{"color":"red"}}]`

	items := DecodeSnapshot([]byte(legacy))

	require.Len(t, items, 1)
	assert.Equal(t, "P1-123", items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "red", items[0].Variation.Color)
}

func TestDecodeSnapshot_CorruptBlobYieldsEmpty(t *testing.T) {
	for _, blob := range []string{"{not json", `"string"`, `{"version":99,"items":"oops"`} {
		assert.Nil(t, DecodeSnapshot([]byte(blob)), "blob: %s", blob)
	}
}

func TestDecodeSnapshot_EmptyInput(t *testing.T) {
	assert.Nil(t, DecodeSnapshot(nil))
	assert.Nil(t, DecodeSnapshot([]byte{}))
}

func TestDecodeSnapshot_SkipsLinesWithoutPrice(t *testing.T) {
	blob := `{"version":1,"items":[
		{"id":"l1","product_id":"P1","title":"a","slug":"a","quantity":1,"image":null,"variation":null},
		{"id":"l2","product_id":"P2","title":"b","slug":"b","price":50,"quantity":1,"image":null,"variation":null}
	]}`

	items := DecodeSnapshot([]byte(blob))

	require.Len(t, items, 1)
	assert.Equal(t, "l2", items[0].ID)
}
