package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/inventario-silo/internal/bootstrap"
	httpRouter "github.com/jhoicas/inventario-silo/internal/interfaces/http"
	"github.com/jhoicas/inventario-silo/pkg/clock"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	loc, err := clock.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria del libro")
	}

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer storage.Close()

	svc := bootstrap.NewServices(cfg, storage, clock.New(loc), log)
	if _, err := svc.Auth.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("seeding del administrador")
	}

	app := httpRouter.NewApp(cfg.App.Name, log, cfg.HTTP.CORSOrigins)

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.MountSwagger(app, "./docs/swagger.json", "Inventario Silo API") {
		log.Warn().Msg("docs/swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      svc.Auth,
		UserUC:      svc.Users,
		ItemUC:      svc.Items,
		CategoryUC:  svc.Categories,
		LocationUC:  svc.Locations,
		Ledger:      svc.Ledger,
		Kardex:      svc.Kardex,
		Reports:     svc.Reports,
		JWT:         svc.JWT,
		Gatherer:    svc.Gatherer,
		MetricsPath: cfg.Metrics.Path,
		ServiceName: cfg.App.Name,
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
