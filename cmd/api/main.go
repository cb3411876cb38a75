package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcontainer "github.com/jhoicas/container-tracker/internal/application/container"
	"github.com/jhoicas/container-tracker/internal/infrastructure/events"
	"github.com/jhoicas/container-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/container-tracker/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/container-tracker/internal/interfaces/http"
	"github.com/jhoicas/container-tracker/pkg/config"
	"github.com/jhoicas/container-tracker/pkg/logger"
)

type publisher interface {
	appcontainer.EventPublisher
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var txRunner appcontainer.TxRunner
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		txRunner = memory.NewStore()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	var pub publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		pub = events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic, log.Component("events"))
		log.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("publicando transiciones en Kafka")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador")
		}
	}()

	pushDates := appcontainer.StrategyFor(cfg.Containers.UpdatesDates)
	containerUC := appcontainer.NewUseCase(txRunner, pub, pushDates, log.Zerolog())

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
		Title:    "Container Tracker API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ContainerUC: containerUC,
		PushDates:   pushDates,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
		Log:         log.Zerolog(),
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
