// Package cli subcomandos de siloctl.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-silo/internal/bootstrap"
	"github.com/jhoicas/inventario-silo/pkg/clock"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Register registra los subcomandos.
func Register(c *subcommands.Commander) {
	c.Register(&migrateCmd{}, "database")
	c.Register(&seedAdminCmd{}, "database")
	c.Register(&importItemsCmd{}, "database")

	c.Register(&kardexCmd{}, "documents")
	c.Register(&reportCmd{}, "documents")
}

var logLevel = flag.String("log-level", "", "Nivel de log (trace, debug, info, warn, error). Por defecto LOG_LEVEL.")

// env configuración, almacenamiento y casos de uso de una ejecución.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	storage *bootstrap.Storage
	svc     *bootstrap.Services
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.App.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})
	return cfg, log, nil
}

// openEnv abre el almacenamiento configurado y arma los casos de uso.
func openEnv(ctx context.Context) (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := clock.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", cfg.App.Timezone, err)
	}
	storage, err := bootstrap.OpenStorage(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	cfg.Metrics.Enabled = false
	return &env{
		cfg:     cfg,
		log:     log,
		storage: storage,
		svc:     bootstrap.NewServices(cfg, storage, clock.New(loc), log),
	}, nil
}

func (e *env) Close() { e.storage.Close() }

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

func writeFile(name string, data []byte) error {
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s (%d bytes)\n", name, len(data))
	return nil
}
