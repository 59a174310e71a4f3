package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"holdmytime/internal/config"
	"holdmytime/internal/database"
	"holdmytime/internal/domain"
	"holdmytime/internal/identity"
	"holdmytime/internal/middleware"
	"holdmytime/internal/modules/account"
	"holdmytime/internal/modules/booking"
	"holdmytime/internal/modules/business"
	"holdmytime/internal/modules/checkout"
	"holdmytime/internal/modules/connect"
	"holdmytime/internal/modules/webhook"
	"holdmytime/internal/payments"
	jwtsvc "holdmytime/internal/pkg/jwt"
	"holdmytime/internal/pkg/logger"
	"holdmytime/internal/repository"
	"holdmytime/internal/worker"
)

func main() {
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	if cfg.Stripe.SecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is empty")
	}

	zl, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Business{}, &domain.Booking{}); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.Auth.JWTSecret, 24*time.Hour)
	gateway := payments.NewClient(cfg.Stripe.SecretKey)
	idClient := identity.NewClient(cfg.Identity.AdminURL, cfg.Identity.ServiceKey)

	builder := checkout.NewBuilder(checkout.Config{
		SiteURL:                cfg.Server.SiteURL,
		PlatformFeeCents:       cfg.Billing.PlatformFeeCents,
		SubscriptionPriceCents: cfg.Billing.SubscriptionPriceCents,
		TrialPeriodDays:        cfg.Billing.TrialPeriodDays,
	})

	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, businessRepo, gateway, builder, zl))
	businessHandler := business.NewHandler(
		business.NewService(businessRepo, userRepo, zl))
	connectHandler := connect.NewHandler(
		connect.NewService(businessRepo, gateway, builder, zl))
	accountHandler := account.NewHandler(
		account.NewService(userRepo, businessRepo, gateway, idClient, builder, zl))
	webhookHandler := webhook.NewHandler(webhook.NewService(
		webhook.NewSignatureVerifier(cfg.Stripe.WebhookSecret),
		bookingRepo, businessRepo, userRepo, zl))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// processor callback, authenticated by signature instead of a token
	webhookHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public booking page
		bookingHandler.RegisterPublicRoutes(v1)
		businessHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterOwnerRoutes(protected)
			businessHandler.RegisterOwnerRoutes(protected)
			connectHandler.RegisterRoutes(protected)
			accountHandler.RegisterRoutes(protected)
		}
	}

	sweeper := worker.NewExpirySweeper(
		bookingRepo,
		time.Duration(cfg.Billing.BookingExpiryHours)*time.Hour,
		time.Hour,
		zl,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	zl.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}
