// Package api exposes the storefront session over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teakspice-storefront/internal/catalog"
	"teakspice-storefront/internal/render"
	"teakspice-storefront/internal/session"
	"teakspice-storefront/internal/shop"
)

type Server struct {
	sessions *session.Registry
	catalog  catalog.Catalog
	render   *render.Renderer
	secret   []byte
	log      *zap.Logger
	now      func() time.Time
}

func NewServer(sessions *session.Registry, cat catalog.Catalog, r *render.Renderer, secret []byte, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sessions: sessions,
		catalog:  cat,
		render:   r,
		secret:   secret,
		log:      log,
		now:      time.Now,
	}
}

// Router builds the gin engine with every route of the storefront API.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), recovery(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})

	// Catalog
	r.GET("/api/products", s.listProducts)

	// Session
	r.POST("/api/session", s.createSession)

	auth := r.Group("/api", s.AuthMiddleware)
	{
		auth.DELETE("/session", s.endSession)

		// Cart
		auth.GET("/cart", s.getCart)
		auth.POST("/cart", s.addToCart)
		auth.POST("/cart/:index/increase", s.increaseQuantity)
		auth.POST("/cart/:index/decrease", s.decreaseQuantity)
		auth.DELETE("/cart/:index", s.removeCartItem)

		// Orders
		auth.POST("/checkout", s.checkout)
		auth.GET("/orders", s.getOrders)
		auth.GET("/orders/:orderId", s.getOrder)

		// Tracker
		auth.GET("/track", s.getTracker)
		auth.POST("/track", s.trackOrder)

		// Panels
		auth.GET("/panels", s.getPanels)
		auth.POST("/panels/:panel/open", s.openPanel)
		auth.POST("/panels/:panel/close", s.closePanel)

		// Change stream
		auth.GET("/events", s.events)
	}

	return r
}

func respondError(c *gin.Context, err error) {
	var cmdErr *shop.CommandError
	if errors.As(err, &cmdErr) {
		status := http.StatusBadRequest
		if cmdErr.Code == shop.StatusNotFound {
			status = http.StatusNotFound
		}
		c.AbortWithStatusJSON(status, gin.H{"error": cmdErr.Message, "code": cmdErr.Code.String()})
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
