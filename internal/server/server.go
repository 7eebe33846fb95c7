package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/wayfarerhq/wayfarer/internal/audit/domain"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/session"
	"github.com/wayfarerhq/wayfarer/internal/config"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"github.com/wayfarerhq/wayfarer/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *telemetry.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(telemetry.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *telemetry.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, log, httpMetrics)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	l := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	authsvc      authdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	tripSvc      tripdomain.Service
	memberSvc    memberdomain.Service
	itinerarySvc itinerarydomain.Service
	auditSvc     auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	TripSvc      tripdomain.Service
	MemberSvc    memberdomain.Service
	ItinerarySvc itinerarydomain.Service
	AuditSvc     auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("server"),
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		tripSvc:      p.TripSvc,
		memberSvc:    p.MemberSvc,
		itinerarySvc: p.ItinerarySvc,
		auditSvc:     p.AuditSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Trips --------
	api.GET("/trips", s.ListTrips)
	api.POST("/trips", s.CreateTrip)
	api.GET("/trips/:id", s.GetTrip)
	api.PATCH("/trips/:id", s.UpdateTrip)
	api.DELETE("/trips/:id", s.DeleteTrip)

	// -------- Itinerary --------
	api.GET("/trips/:id/itinerary", s.ListItineraryItems)
	api.POST("/trips/:id/itinerary", s.CreateItineraryItem)
	api.PATCH("/trips/:id/itinerary/:itemId", s.UpdateItineraryItem)
	api.DELETE("/trips/:id/itinerary/:itemId", s.DeleteItineraryItem)

	// -------- Members --------
	api.GET("/trips/:id/members", s.ListMembers)
	api.POST("/trips/:id/members", s.AddMember)
	api.PATCH("/trips/:id/members/:memberId", s.UpdateMemberRole)
	api.DELETE("/trips/:id/members/:memberId", s.RemoveMember)
	api.POST("/trips/:id/members/leave", s.LeaveTrip)

	// -------- Invites --------
	api.GET("/trips/:id/invites", s.ListInvites)
	api.POST("/trips/:id/invites", s.CreateInvite)
	api.DELETE("/trips/:id/invites/:inviteId", s.RevokeInvite)
	api.POST("/invites/accept", s.AcceptInvite)

	// -------- Audit --------
	api.GET("/trips/:id/audit", s.ListTripAuditLogs)
}
