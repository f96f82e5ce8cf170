package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hospital-appointment-api/internal/middleware"
	"hospital-appointment-api/internal/store"
)

type Handler struct {
	store  *store.Store
	secret string
	log    *logrus.Logger
}

func New(st *store.Store, secret string, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{store: st, secret: secret, log: log}
}

// Routes registers the API surface. Paths match the original frontend's
// expectations and must not change.
func (h *Handler) Routes(r *gin.Engine, rl *middleware.RateLimiter) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	{
		limited := middleware.RateLimit(rl)
		authGroup.POST("/register", limited, h.register)
		authGroup.POST("/login", limited, h.login)
		authGroup.GET("/me", middleware.Auth(h.secret), h.me)
	}

	appts := api.Group("/appointments", middleware.Auth(h.secret))
	{
		appts.POST("", h.bookAppointment)
		appts.GET("", h.listAppointments)
		appts.DELETE("/:id", h.cancelAppointment)
	}
}
