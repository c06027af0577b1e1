package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/member"
	"gymdesk/internal/notification"
	"gymdesk/internal/payment"
	"gymdesk/internal/plan"
	"gymdesk/internal/user"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Tokens        auth.Verifier
	Users         *user.Handler
	Members       *member.Handler
	Plans         *plan.Handler
	Payments      *payment.Handler
	Dashboard     *dashboard.Handler
	Notifications *notification.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *slog.Logger
}

// New builds the router. db backs the health check and mailer the test
// email endpoint; mailer may be nil when no queue is configured.
func New(cfg *config.Config, log *slog.Logger, db Pinger, mailer Mailer, h Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware(log))
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())

	h.Users.RegisterPublicRoutes(router.Group(""))

	adminOnly := auth.RequireRole(auth.RoleAdmin)
	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware(h.Tokens))
	{
		h.Users.RegisterRoutes(protected)
		h.Members.RegisterRoutes(protected)
		h.Plans.RegisterRoutes(protected, adminOnly)
		h.Payments.RegisterRoutes(protected, adminOnly)
		h.Dashboard.RegisterRoutes(protected)
		h.Notifications.RegisterRoutes(protected)

		if mailer != nil {
			protected.POST("/system/test-email", adminOnly, TestEmail(mailer))
		}
	}

	return &Server{
		router: router,
		log:    log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("HTTP server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
