// Package streamingstar предоставляет маршруты для основного приложения.
package streamingstar

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/streamingstar/streaming-star/internal/http/handlers/auth/login"
	"github.com/streamingstar/streaming-star/internal/http/handlers/auth/register"
	"github.com/streamingstar/streaming-star/internal/http/handlers/billing/ordercreate"
	"github.com/streamingstar/streaming-star/internal/http/handlers/billing/paymentverify"
	"github.com/streamingstar/streaming-star/internal/http/handlers/billing/planlist"
	catalogdetail "github.com/streamingstar/streaming-star/internal/http/handlers/catalog/detail"
	"github.com/streamingstar/streaming-star/internal/http/handlers/catalog/genres"
	cataloglist "github.com/streamingstar/streaming-star/internal/http/handlers/catalog/list"
	"github.com/streamingstar/streaming-star/internal/http/handlers/catalog/search"
	"github.com/streamingstar/streaming-star/internal/http/handlers/catalog/suggest"
	mylistlist "github.com/streamingstar/streaming-star/internal/http/handlers/mylist/list"
	mylisttoggle "github.com/streamingstar/streaming-star/internal/http/handlers/mylist/toggle"
	"github.com/streamingstar/streaming-star/internal/http/handlers/play"
	"github.com/streamingstar/streaming-star/internal/http/handlers/profile"
	"github.com/streamingstar/streaming-star/internal/http/handlers/subscription/status"
	"github.com/streamingstar/streaming-star/internal/http/middlewarectx"
	"github.com/streamingstar/streaming-star/internal/models"
	authservice "github.com/streamingstar/streaming-star/internal/services/auth"
	billingservice "github.com/streamingstar/streaming-star/internal/services/billing"
	catalogservice "github.com/streamingstar/streaming-star/internal/services/catalog"
	entitlementservice "github.com/streamingstar/streaming-star/internal/services/entitlement"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.Service,
	billingService *billingservice.Service,
	entitlementService *entitlementservice.Service,
	catalogService *catalogservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		r.Get("/movies", cataloglist.New(logger, catalogService, models.CategoryMovie).ServeHTTP)
		r.Get("/tv", cataloglist.New(logger, catalogService, models.CategoryTV).ServeHTTP)
		r.Get("/movies/{movieID}", catalogdetail.New(logger, catalogService).ServeHTTP)
		r.Get("/genres", genres.New(logger, catalogService).ServeHTTP)
		r.Get("/search", search.New(logger, catalogService).ServeHTTP)
		r.Get("/search/suggest", suggest.New(logger, catalogService).ServeHTTP)
		r.Get("/billing/plans", planlist.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

			r.Get("/profile", profile.New(logger, db).ServeHTTP)
			r.Get("/subscription/status", status.New(logger, entitlementService).ServeHTTP)
			r.Post("/billing/order", ordercreate.New(logger, billingService).ServeHTTP)
			r.Post("/billing/verify", paymentverify.New(logger, billingService).ServeHTTP)
			r.Get("/my-list", mylistlist.New(logger, catalogService).ServeHTTP)
			r.Post("/my-list/{movieID}", mylisttoggle.New(logger, catalogService).ServeHTTP)

			// Просмотр закрыт шлюзом подписки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(entitlementService, logger))
				r.Get("/play/{movieID}", play.New(logger, catalogService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
