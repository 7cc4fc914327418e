package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-silo/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-silo/pkg/config"
)

type migrateCmd struct {
	status bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica las migraciones pendientes de PostgreSQL" }
func (*migrateCmd) Usage() string {
	return `siloctl migrate [-status]

  Aplica las migraciones embebidas contra la base configurada en DATABASE_URL o DB_*.
  Con -status solo lista el estado de cada migración.
`
}

func (m *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&m.status, "status", false, "Muestra el estado sin aplicar cambios.")
}

func (m *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.DB.Driver != config.StoragePostgres {
		return fail(errors.New("migrate requiere STORAGE_DRIVER=postgres"))
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fail(err)
	}
	defer pool.Close()

	if m.status {
		err = postgres.MigrationStatus(ctx, pool, log)
	} else {
		err = postgres.Migrate(ctx, pool, log)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
