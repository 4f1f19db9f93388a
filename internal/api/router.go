package api

import (
	"github.com/gin-gonic/gin"

	"github.com/thanhnp/electrum-apis/internal/api/handlers"
	"github.com/thanhnp/electrum-apis/internal/api/middleware"
	"github.com/thanhnp/electrum-apis/internal/query"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine         *gin.Engine
	addressHandler *handlers.AddressHandler
}

// NewRouter creates a new Router over the per-network query services
func NewRouter(services map[string]query.AddressQuerier) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:         gin.New(),
		addressHandler: handlers.NewAddressHandler(services),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := r.engine.Group("/api/v1/:network")
	v1.Use(middleware.ValidateNetwork())
	{
		v1.GET("/tip", r.addressHandler.GetTip)

		addresses := v1.Group("/addresses")
		{
			addresses.GET("/:address/balance", r.addressHandler.GetBalance)
			addresses.GET("/:address/history", r.addressHandler.GetHistory)
			addresses.GET("/:address/unspents", r.addressHandler.GetUnspents)
			addresses.GET("/:address/scripthash", r.addressHandler.GetScriptHash)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
