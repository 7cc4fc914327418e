// Package bootstrap arma almacenamiento y casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y siloctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/inventario-silo/internal/application/auth"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/usecase"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/jwt"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Storage agrupa los repositorios del driver elegido.
type Storage struct {
	Driver     string
	Pool       *pgxpool.Pool // nil con el driver en memoria
	Tx         appinv.TxRunner
	Items      repository.ItemRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Users      repository.UserRepository
}

// OpenStorage conecta con PostgreSQL (y migra si DB_AUTO_MIGRATE) o crea el almacén en memoria.
func OpenStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Storage, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		store := memstore.New()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Storage{
			Driver:     cfg.Driver,
			Tx:         memstore.NewTxRunner(store),
			Items:      store.Items(),
			Movements:  store.Movements(),
			Categories: store.Categories(),
			Locations:  store.Locations(),
			Users:      store.Users(),
		}, nil
	case config.StoragePostgres, "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Storage{
			Driver:     config.StoragePostgres,
			Pool:       pool,
			Tx:         postgres.NewTxRunner(pool),
			Items:      postgres.NewItemRepository(pool),
			Movements:  postgres.NewMovementRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Locations:  postgres.NewLocationRepository(pool),
			Users:      postgres.NewUserRepository(pool),
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Driver)
}

// Close libera el pool si lo hay.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Services casos de uso listos para el transporte.
type Services struct {
	Auth       *auth.AuthUseCase
	Users      *usecase.UserUseCase
	Items      *usecase.ItemUseCase
	Categories *usecase.CategoryUseCase
	Locations  *usecase.LocationUseCase
	Ledger     *appinv.LedgerUseCase
	Kardex     *appinv.KardexUseCase
	Reports    *appinv.ReportUseCase
	JWT        jwt.Options

	// Gatherer es nil con METRICS_ENABLED=false.
	Gatherer prometheus.Gatherer
}

// NewServices conecta los casos de uso con el almacenamiento, el reloj y las métricas.
func NewServices(cfg *config.Config, st *Storage, clk appinv.Clock, log *logger.Logger) *Services {
	var (
		ledgerMetrics appinv.Metrics = appinv.NopMetrics{}
		gatherer      prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		ledgerMetrics = metrics.NewLedger(reg)
		gatherer = reg
	}

	jwtOpts := jwt.Options{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		ExpMinutes: cfg.JWT.Expiration,
	}
	reconciler := appinv.NewReconciler(st.Movements, clk, ledgerMetrics, log)

	return &Services{
		Auth:       auth.NewAuthUseCase(st.Users, jwtOpts, log),
		Users:      usecase.NewUserUseCase(st.Users, clk),
		Items:      usecase.NewItemUseCase(st.Tx, st.Items, st.Categories, st.Locations, reconciler, clk, log),
		Categories: usecase.NewCategoryUseCase(st.Categories, st.Items, clk),
		Locations:  usecase.NewLocationUseCase(st.Locations, st.Items, clk),
		Ledger:     appinv.NewLedgerUseCase(st.Tx, st.Movements, clk, ledgerMetrics),
		Kardex:     appinv.NewKardexUseCase(st.Items, st.Movements, pdf.NewKardexGenerator(cfg.App.Name), clk),
		Reports:    appinv.NewReportUseCase(st.Items, st.Movements, excel.NewPeriodReportWriter(), clk),
		JWT:        jwtOpts,
		Gatherer:   gatherer,
	}
}
