// Package routes assembles the gin engine: middleware, static uploads and
// the activities, auth and uploads route groups.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"activities-backend/internal/auth"
	"activities-backend/internal/handlers"
	"activities-backend/internal/logging"
	"activities-backend/internal/metrics"
	"activities-backend/internal/models"
)

// Options configures the engine-level middleware.
type Options struct {
	CORSOrigins []string
	// UploadsDir is served at /uploads; empty disables static serving.
	UploadsDir string
	Logger     logging.Logger
}

// New returns an engine with every route mounted.
func New(h *handlers.Handler, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	r := gin.New()
	r.Use(logging.RequestLogger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.FromGin(c, log).Error(c.Request.Context(), "panic recovered", "panic", recovered)
		c.String(http.StatusInternalServerError, "Server Error")
		c.Abort()
	}))
	r.Use(corsMiddleware(opts.CORSOrigins))
	r.Use(metrics.Middleware())

	SetupRoutes(r, h, opts.UploadsDir)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
		ExposeHeaders: []string{logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// SetupRoutes mounts the public and protected routes on r.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, uploadsDir string) {
	protect := auth.Protect(h.Tokens, h.Users)
	staff := auth.Authorize(models.RoleAdmin, models.RoleEditor)
	adminOnly := auth.Authorize(models.RoleAdmin)

	// Public Routes
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", metrics.Handler())
	if uploadsDir != "" {
		r.Static("/uploads", uploadsDir)
	}

	// ACTIVITIES
	activities := r.Group("/api/activities")
	{
		activities.GET("", h.ListActivities)
		activities.GET("/:id", h.GetActivity)
		activities.POST("", protect, staff, h.CreateActivity)
		activities.PUT("/:id", protect, staff, h.UpdateActivity)
		activities.DELETE("/:id", protect, adminOnly, h.DeleteActivity)

		// CONTACT
		activities.POST("/send-email", h.SendEmail)
	}

	// AUTH
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", protect, h.Me)
		authGroup.POST("/register", protect, adminOnly, h.Register)
	}

	// UPLOADS
	r.POST("/api/uploads", protect, staff, h.UploadPicture)
}
