package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xyvra/marketplace-api/config"
	"github.com/xyvra/marketplace-api/internal/cache"
	"github.com/xyvra/marketplace-api/internal/email"
	adminHandler "github.com/xyvra/marketplace-api/internal/handler/admin"
	authHandler "github.com/xyvra/marketplace-api/internal/handler/auth"
	blogHandler "github.com/xyvra/marketplace-api/internal/handler/blog"
	cartHandler "github.com/xyvra/marketplace-api/internal/handler/cart"
	facilityHandler "github.com/xyvra/marketplace-api/internal/handler/facility"
	groupHandler "github.com/xyvra/marketplace-api/internal/handler/group"
	healthHandler "github.com/xyvra/marketplace-api/internal/handler/health"
	medicineHandler "github.com/xyvra/marketplace-api/internal/handler/medicine"
	productHandler "github.com/xyvra/marketplace-api/internal/handler/product"
	profileHandler "github.com/xyvra/marketplace-api/internal/handler/profile"
	providerHandler "github.com/xyvra/marketplace-api/internal/handler/provider"
	specializationHandler "github.com/xyvra/marketplace-api/internal/handler/specialization"
	"github.com/xyvra/marketplace-api/internal/middleware"
	"github.com/xyvra/marketplace-api/internal/repository/postgres"
	"github.com/xyvra/marketplace-api/internal/router"
	authService "github.com/xyvra/marketplace-api/internal/service/auth"
	blogService "github.com/xyvra/marketplace-api/internal/service/blog"
	cartService "github.com/xyvra/marketplace-api/internal/service/cart"
	facilityService "github.com/xyvra/marketplace-api/internal/service/facility"
	groupService "github.com/xyvra/marketplace-api/internal/service/group"
	medicineService "github.com/xyvra/marketplace-api/internal/service/medicine"
	productService "github.com/xyvra/marketplace-api/internal/service/product"
	profileService "github.com/xyvra/marketplace-api/internal/service/profile"
	providerService "github.com/xyvra/marketplace-api/internal/service/provider"
	specializationService "github.com/xyvra/marketplace-api/internal/service/specialization"
	"github.com/xyvra/marketplace-api/internal/storage"
	"github.com/xyvra/marketplace-api/pkg/auth"
	"github.com/xyvra/marketplace-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient, err := cache.NewClient(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	emailSvc := email.NewGomailService(cfg.SMTP)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	hasher := security.NewBcryptHasher(0)
	blacklist := cache.NewTokenBlacklist(redisClient)
	listCache := cache.NewStore(redisClient)

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)
	specRepo := postgres.NewSpecializationRepository(base)
	facilityRepo := postgres.NewFacilityRepository(base)
	groupRepo := postgres.NewGroupRepository(base)
	medicineRepo := postgres.NewMedicineRepository(base)
	cartRepo := postgres.NewCartRepository(base)
	productRepo := postgres.NewProductRepository(base)
	blogRepo := postgres.NewBlogRepository(base)
	docRepo := postgres.NewDocumentRepository(base)

	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc, blacklist)
	profileSvc := profileService.NewService(userRepo, specRepo, docRepo, store)
	providerSvc := providerService.NewService(userRepo, docRepo)
	specializationSvc := specializationService.NewService(specRepo)
	facilitySvc := facilityService.NewService(facilityRepo, specRepo, store)
	groupSvc := groupService.NewService(groupRepo, store)
	medicineSvc := medicineService.NewService(medicineRepo, store)
	cartSvc := cartService.NewService(cartRepo, medicineRepo)
	productSvc := productService.NewService(productRepo, store)
	blogSvc := blogService.NewService(blogRepo, store, listCache)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, blacklist)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(authMiddleware, router.Handlers{
		Auth:           authHandler.NewHandler(authSvc),
		Profile:        profileHandler.NewHandler(profileSvc),
		Provider:       providerHandler.NewHandler(providerSvc),
		Specialization: specializationHandler.NewHandler(specializationSvc),
		Facility:       facilityHandler.NewHandler(facilitySvc),
		Group:          groupHandler.NewHandler(groupSvc),
		Medicine:       medicineHandler.NewHandler(medicineSvc),
		Cart:           cartHandler.NewHandler(cartSvc),
		Product:        productHandler.NewHandler(productSvc),
		Blog:           blogHandler.NewHandler(blogSvc),
		Admin:          adminHandler.NewHandler(blogSvc),
		Health:         healthHandler.NewHandler(db, redisClient),
	}, router.Config{
		CORS: corsConfig,
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
		},
		RateLimitOn:    cfg.RateLimit.Enabled,
		MaxUploadBytes: cfg.Uploads.MaxSizeBytes,
		MetricsPrefix:  "marketplace_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
