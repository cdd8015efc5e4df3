package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
	ListByGuest(c *gin.Context)
	ListByAccommodation(c *gin.Context)
}

type Handlers struct {
	Booking          BookingHTTP
	IdentityResolver gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Guest-ID", "X-Host-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.IdentityResolver != nil {
		router.Use(h.IdentityResolver)
	}

	registerStateLabelValidation()

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.PATCH("/bookings/:id", h.Booking.Update)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/guests/:id/bookings", h.Booking.ListByGuest)
		api.GET("/accommodations/:id/bookings", h.Booking.ListByAccommodation)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
