// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/ai"
	"github.com/nocodeci/yatou-sub002/internal/http/handlers"
	"github.com/nocodeci/yatou-sub002/internal/http/middleware"
	"github.com/nocodeci/yatou-sub002/internal/infra"
	"github.com/nocodeci/yatou-sub002/internal/modules/dispatch"
	"github.com/nocodeci/yatou-sub002/internal/modules/location"
	"github.com/nocodeci/yatou-sub002/internal/modules/order"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

// ServerDeps carries the wired services. Routes, LLM may be nil; the
// depending endpoints then degrade or answer 503.
type ServerDeps struct {
	Tariff   *tariff.Service
	Order    *order.Service
	Dispatch *dispatch.Service
	Location *location.Service
	Routes   handlers.RouteEstimator
	LLM      ai.LLMProvider
	Verifier infra.TokenVerifier
}

func NewRouter(deps ServerDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	quoteHandler := handlers.NewQuoteHandler(deps.Tariff, deps.Dispatch, deps.Routes, deps.LLM)
	api.POST("/quotes", quoteHandler.Quote)
	api.POST("/quotes/explain", quoteHandler.Explain)

	planHandler := handlers.NewPlanHandler(deps.Tariff, deps.LLM)
	api.GET("/plans", planHandler.List)
	api.POST("/plans/suggest", planHandler.Suggest)

	orderHandler := handlers.NewOrderHandler(deps.Order)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)

	driverHandler := handlers.NewDriverHandler(deps.Order, deps.Dispatch)
	api.POST("/drivers/online", driverHandler.Online)
	api.POST("/drivers/offline", driverHandler.Offline)
	api.POST("/drivers/orders/:id/accept", driverHandler.Accept)
	api.POST("/drivers/orders/:id/pickup", driverHandler.Pickup)
	api.POST("/drivers/orders/:id/deliver", driverHandler.Deliver)
	api.POST("/drivers/orders/:id/withdraw", driverHandler.Withdraw)

	locationHandler := handlers.NewLocationHandler(deps.Location)
	api.PUT("/drivers/location", locationHandler.Update)

	return r
}
