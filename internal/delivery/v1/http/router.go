package http

import (
	_ "github.com/bazaarfly/go-storefront/docs" // Импорт сгенерированных файлов
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(cartUC usecase.CartUC, catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(clientContext)

		cartHandler := NewCartHandler(cartUC, r.logger)
		registerCartRoutes(v1, cartHandler)

		catalogHandler := NewCatalogHandler(catalogUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)
	})
}

func registerCartRoutes(router chi.Router, cartHandler *CartHandler) {
	router.Route("/cart", func(cart chi.Router) {
		cart.Get("/", cartHandler.getCart)
		cart.Delete("/", cartHandler.clearCart)
		cart.Post("/items", cartHandler.addItem)
		cart.Patch("/items/{lineID}", cartHandler.updateQuantity)
		cart.Delete("/items/{lineID}", cartHandler.removeItem)
		cart.Post("/checkout", cartHandler.checkout)
	})
}

func registerCatalogRoutes(router chi.Router, catalogHandler *CatalogHandler) {
	router.Get("/products", catalogHandler.getProducts)
	router.Get("/products/{slug}", catalogHandler.getProductBySlug)
	router.Get("/categories", catalogHandler.getCategories)
}
