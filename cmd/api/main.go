package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumocms/lumo-backend/internal/config"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/event"
	"github.com/lumocms/lumo-backend/internal/fieldkind"
	"github.com/lumocms/lumo-backend/internal/handler"
	"github.com/lumocms/lumo-backend/internal/middleware"
	"github.com/lumocms/lumo-backend/internal/query"
	"github.com/lumocms/lumo-backend/internal/repository"
	"github.com/lumocms/lumo-backend/internal/routes"
	"github.com/lumocms/lumo-backend/internal/serializer"
	"github.com/lumocms/lumo-backend/internal/service"
	pkgcache "github.com/lumocms/lumo-backend/pkg/cache"
	pkglogger "github.com/lumocms/lumo-backend/pkg/logger"
	pkgredis "github.com/lumocms/lumo-backend/pkg/redis"
)

// @title           Lumo Content API
// @version         1.0
// @description     Headless content API with draft/published workflow and version history
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting lumo-backend")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Schema{},
		&domain.SchemaField{},
		&domain.ContentRecord{},
		&domain.ContentVersion{},
		&domain.APIKey{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if sqlDB, dbErr := db.DB(); dbErr == nil {
		go func() {
			for range time.Tick(15 * time.Second) {
				middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("redis unavailable, continuing without cache")
		redisClient = nil
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	// Event outbox with optional webhook fan-out
	dispatcher := event.NewDispatcher(cfg.Events.BufferSize, event.LogSubscriber{})
	if cfg.Events.WebhookURL != "" {
		dispatcher.Subscribe(event.NewWebhookSubscriber(cfg.Events.WebhookURL))
	}
	defer dispatcher.Close()

	// Repositories and services
	schemaRepo := repository.NewSchemaRepository(db)
	contentRepo := repository.NewContentRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	schemaService := service.NewSchemaService(schemaRepo, cacheService)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)
	contentService := service.NewContentService(
		contentRepo,
		schemaService,
		serializer.New(fieldkind.NewRegistry()),
		dispatcher,
		cacheService,
	)

	resolver := query.NewResolver(cfg.API.DefaultListLimit, cfg.API.MaxListLimit)
	contentHandler := handler.NewContentHandler(contentService, resolver)
	versionHandler := handler.NewVersionHandler(contentService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Request-ID"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	if redisClient != nil && env == "production" {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, contentHandler, versionHandler, healthHandler, apiKeyService)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.GetLogger().Info().Int("port", cfg.Server.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.GetLogger().Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("forced shutdown")
	}
}

// initDB opens the MySQL connection with pool settings from config
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	gormLogLevel := gormlogger.Warn
	if os.Getenv("APP_ENV") == "local" {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
