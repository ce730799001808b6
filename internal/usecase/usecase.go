package usecase

import "context"

type CartUC interface {
	GetCart(ctx context.Context, clientID string) (*CartRes, error)
	AddItem(ctx context.Context, req *AddItemReq) (*CartRes, error)
	RemoveItem(ctx context.Context, clientID, lineID string) (*CartRes, error)
	UpdateQuantity(ctx context.Context, clientID, lineID string, quantity int) (*CartRes, error)
	ClearCart(ctx context.Context, clientID string) (*CartRes, error)
	Checkout(ctx context.Context, clientID string) (*CheckoutRes, error)
}

type CatalogUC interface {
	GetProducts(ctx context.Context, req *GetProductsReq) ([]ProductInfo, error)
	GetProductBySlug(ctx context.Context, slug, token string) (*ProductInfo, error)
	GetCategories(ctx context.Context, token string) ([]CategoryInfo, error)
}
