package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/comsanjuan/recibos-admin-api/internal/application/analytics"
	"github.com/comsanjuan/recibos-admin-api/internal/application/auth"
	apprecibos "github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
	"github.com/comsanjuan/recibos-admin-api/internal/application/usecase"
	infrapdf "github.com/comsanjuan/recibos-admin-api/internal/infrastructure/pdf"
	"github.com/comsanjuan/recibos-admin-api/internal/infrastructure/postgres"
	"github.com/comsanjuan/recibos-admin-api/internal/infrastructure/recibosapi"
	"github.com/comsanjuan/recibos-admin-api/internal/infrastructure/redisstore"
	httpRouter "github.com/comsanjuan/recibos-admin-api/internal/interfaces/http"
	"github.com/comsanjuan/recibos-admin-api/pkg/config"
	"github.com/comsanjuan/recibos-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserProfileRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)

	// Sin Redis la aplicación arranca igual, pero sin throttle de login ni
	// revocación de tokens. Solo aceptable en desarrollo.
	var sessions auth.SessionStore = auth.NoopSessionStore{}
	if cfg.Redis.Addr != "" {
		redisClient, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		sessions = redisstore.NewSessionStore(redisClient, cfg.Login)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: throttle de login y revocación de tokens deshabilitados")
	}

	gate := setup.NewGate(userRepo, auditRepo)
	authUC := auth.NewUseCase(userRepo, auditRepo, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, auditRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	apiClient := recibosapi.NewClient(cfg.RecibosAPI)
	pdfGenerator := infrapdf.NewMarotoReciboGenerator(cfg.App.Name)
	recibosUC := apprecibos.NewUseCase(apiClient, pdfGenerator, log.Zerolog())
	dashboardUC := appanalytics.NewDashboardUseCase(userRepo, recibosUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ComSanJuan Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gate:        gate,
		AuthUC:      authUC,
		UserUC:      userUC,
		AuditUC:     auditUC,
		RecibosUC:   recibosUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
