package domain

// Variation описывает набор атрибутов товара (цвет, размер, качество),
// различающий одинаковые по каталогу позиции.
type Variation struct {
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
}

func NewVariation(color, size, quality string) *Variation {
	return &Variation{
		Color:   color,
		Size:    size,
		Quality: quality,
	}
}

// Equal сравнивает вариации по содержимому.
// Отсутствующая вариация (nil) не равна пустой: это разные строки корзины.
func (v *Variation) Equal(other *Variation) bool {
	if v == nil || other == nil {
		return v == other
	}

	return v.Color == other.Color &&
		v.Size == other.Size &&
		v.Quality == other.Quality
}
