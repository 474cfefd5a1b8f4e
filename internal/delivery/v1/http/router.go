package http

import (
	_ "github.com/DRSN-tech/shop-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(userUC usecase.UserUC, productUC usecase.ProductUC, orderUC usecase.OrderUC) {
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	auth := NewAuthMiddleware(userUC, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		userHandler := NewUserHandler(userUC, orderUC, r.logger)
		authHandler := NewAuthHandler(userUC, r.logger)
		productHandler := NewProductHandler(productUC, r.logger)
		orderHandler := NewOrderHandler(orderUC, r.logger)

		v1.Post("/token", authHandler.token)

		registerUserRoutes(v1, userHandler, auth)
		registerProductRoutes(v1, productHandler, auth)
		registerOrderRoutes(v1, orderHandler, auth)
	})
}

func registerUserRoutes(router chi.Router, h *UserHandler, auth *AuthMiddleware) {
	router.Route("/users", func(u chi.Router) {
		u.Post("/", h.register)

		// TODO: ограничить листинги ролью администратора
		u.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuth)
			protected.Get("/", h.list)
			protected.Get("/me", h.me)
			protected.Get("/{id}", h.getByID)
			protected.Get("/{id}/orders", h.orders)
		})
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler, auth *AuthMiddleware) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.list)
		pr.Get("/{id}", h.get)

		pr.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuth)
			protected.Post("/", h.create)
			protected.Put("/{id}", h.update)
			protected.Delete("/{id}", h.delete)
			protected.Post("/{id}/image", h.attachImage)
		})
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler, auth *AuthMiddleware) {
	router.Route("/orders", func(o chi.Router) {
		o.Use(auth.RequireAuth)
		o.Post("/", h.create)
		o.Get("/", h.list)
	})
}
