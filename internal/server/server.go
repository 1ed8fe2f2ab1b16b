package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"seatwise/internal/billing"
	"seatwise/internal/config"
	"seatwise/internal/middleware"
	"seatwise/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	mongo  *mongo.Client
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	mongoClient, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	gateway := billing.NewStripeGateway(cfg.Stripe.SecretKey)
	repos := InitRepositories(db)
	services := InitServices(cfg, repos, gateway)
	handlers := InitHandlers(cfg, repos, services)

	router := setupRouter(handlers, repos)

	return &Server{
		cfg:    cfg,
		router: router,
		mongo:  mongoClient,
	}, nil
}

func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Close disconnects MongoDB client
func (s *Server) Close() error {
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.mongo.Disconnect(ctx)
	}
	return nil
}

// Run starts the server
func (s *Server) Run() error {
	log.Info().Str("address", s.cfg.Server.Address()).Msg("server starting")
	return s.router.Run(s.cfg.Server.Address())
}

func setupRouter(h *Handlers, repos *Repositories) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.SetTrustedProxies(nil)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Unauthenticated routes
	api.POST("/login", h.Auth.Login)
	api.POST("/webhooks/stripe", h.Webhook.Handle)
	api.POST("/invitations/:id/accept", h.Invitation.Accept)

	// Protected routes require a bearer session token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(repos.Sessions))

	bill := protected.Group("/billing")
	{
		bill.POST("/check-user-limit", h.Billing.CheckUserLimit)
		bill.POST("/check-role-change", h.Billing.CheckRoleChange)
		bill.POST("/sync-seats", h.Billing.SyncSeats)
		bill.POST("/change-plan", h.Billing.ChangePlan)
		bill.GET("/info", h.Billing.Info)
	}

	protected.GET("/check-session-limit", h.Session.CheckLimit)
	protected.POST("/revoke-session", h.Session.Revoke)
	protected.GET("/session-settings", h.Session.GetSettings)
	protected.PUT("/session-settings", h.Session.UpdateSettings)

	orgs := protected.Group("/organizations/:orgId")
	{
		orgs.POST("/invitations", h.Invitation.Create)
		orgs.PUT("/members/:memberId/role", h.Member.ChangeRole)
		orgs.DELETE("/members/:memberId", h.Member.Remove)
	}

	protected.DELETE("/invitations/:id", h.Invitation.Cancel)

	protected.POST("/admin/cleanup-test-users", h.Admin.CleanupTestUsers)

	return r
}
