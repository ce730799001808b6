package converter

// ProductInfoRedisModel — JSON-представление карточки товара в кэше Redis.
type ProductInfoRedisModel struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Price        string  `json:"price"`
	Image        *string `json:"image,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	Description  string  `json:"description,omitempty"`
}
