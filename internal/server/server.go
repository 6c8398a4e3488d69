package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"photobook/internal/auth"
	"photobook/internal/booking"
	"photobook/internal/config"
	"photobook/internal/logger"
	"photobook/internal/notify"
	"photobook/internal/photographer"
	"photobook/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         *user.Handler
	Photographer *photographer.Handler
	Booking      *booking.Handler
	Notification *notify.Handler
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
}

func New(cfg *config.Config, h Handlers, checks ...Check) *Server {
	router := NewRouter(cfg, h, checks...)
	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func NewRouter(cfg *config.Config, h Handlers, checks ...Check) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		corsMiddleware(cfg.AllowedOrigins),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health(checks...))
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	router.GET("/photographers", h.Photographer.ListProfiles)
	router.GET("/photographers/:id", h.Photographer.GetProfile)
	router.GET("/photographers/:id/packages", h.Photographer.ListPackages)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)

		protected.POST("/bookings", auth.RequireRole(auth.RoleClient), h.Booking.Create)
		protected.GET("/bookings/me", h.Booking.ListMine)
		protected.GET("/bookings/received", h.Booking.ListReceived)
		protected.GET("/bookings/:id", h.Booking.Get)
		protected.POST("/bookings/:id/transitions", h.Booking.Transition)

		protected.GET("/notifications", h.Notification.List)
		protected.POST("/notifications/:id/read", h.Notification.MarkRead)
	}

	studio := router.Group("/photographers")
	studio.Use(authMiddleware, auth.RequireRole(auth.RolePhotographer))
	{
		studio.POST("", h.Photographer.CreateProfile)
		studio.POST("/me/packages", h.Photographer.CreatePackage)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/stats/bookings", h.Booking.Stats)
	}

	return router
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
