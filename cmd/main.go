package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/eventlog"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/geocoding"
	v1 "github.com/shenikar/crisis_broadcasting_system/internal/handler/http/v1"
	"github.com/shenikar/crisis_broadcasting_system/internal/llm/claude"
	"github.com/shenikar/crisis_broadcasting_system/internal/repository"
	"github.com/shenikar/crisis_broadcasting_system/internal/service"
	"github.com/shenikar/crisis_broadcasting_system/internal/verification"
	"github.com/shenikar/crisis_broadcasting_system/internal/webhook"
	"github.com/shenikar/crisis_broadcasting_system/pkg/logger"
	"github.com/shenikar/crisis_broadcasting_system/pkg/postgres"
	redisclient "github.com/shenikar/crisis_broadcasting_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/crisis_broadcasting_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const geocoderTimeout = 5 * time.Second

// @title Crisis Broadcasting System API
// @version 1.0
// @description Incident correlation and real-time dissemination for emergency response.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Хаб рассылки: Redis-ретрансляция между инстансами, журнал в Kafka при наличии брокеров
	hubOpts := []broadcast.Option{
		broadcast.WithRedisRelay(redisClient),
		broadcast.WithMetrics(broadcast.NewMetrics(prometheus.DefaultRegisterer)),
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink := eventlog.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer func() {
			if err := sink.Close(); err != nil {
				log.WithError(err).Warn("Failed to close Kafka writer")
			}
		}()
		hubOpts = append(hubOpts, broadcast.WithSink(sink))
		log.WithField("topic", cfg.KafkaTopic).Info("Broadcast export to Kafka enabled")
	}
	hub := broadcast.NewHub(log, hubOpts...)
	go hub.Run(ctx)

	// Вебхуки о нарушении геозон
	var webhookPublisher webhook.WebhookPublisher
	if cfg.WebhookURL != "" {
		webhookPublisher = webhook.NewRedisWebhookPublisher(redisClient)
		webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
		webhookWorker.Start(ctx)
	} else {
		log.Info("WEBHOOK_URL is not set, geofence webhooks disabled")
	}

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)
	geofenceRepo := repository.NewGeofenceRepository(dbpool)
	personnelRepo := repository.NewPersonnelRepository(dbpool)

	// Пул верификации изображений
	if cfg.AnthropicAPIKey == "" {
		log.Warn("ANTHROPIC_API_KEY is not set, image verification will be skipped")
	}
	analyzer := claude.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	pool := verification.NewPool(incidentRepo, analyzer, hub, log, cfg, verification.NewMetrics(prometheus.DefaultRegisterer))
	pool.Start(ctx)

	// Инициализация сервисов
	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	incidentService := service.NewIncidentService(incidentRepo, log, cfg, hub, pool, metrics)
	geofenceService := service.NewGeofenceService(geofenceRepo, log, cfg, hub, webhookPublisher, metrics)
	personnelService := service.NewPersonnelService(personnelRepo, geofenceService, hub, log)

	// Геокодер для SMS-канала
	var geocoderClient *geocoding.Client
	if cfg.GeocoderURL != "" {
		geocoderClient = geocoding.New(cfg.GeocoderURL, cfg.GeocoderUserAgent, geocoderTimeout)
	}
	geocoder := geocoding.NewResolver(geocoderClient, geo.Point{Lat: cfg.DefaultLatitude, Lng: cfg.DefaultLongitude}, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(v1.Services{
		Incidents: incidentService,
		Geofences: geofenceService,
		Personnel: personnelService,
		Geocoder:  geocoder,
		Stream:    hub.ServeWS,
	}, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики и Swagger UI
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые воркеры
	cancel()
	pool.Stop()

	log.Info("Server gracefully stopped")
}
