package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/bootstrap"
	"github.com/jhoicas/inventario-silo/pkg/clock"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

func memoryConfig(metrics bool) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "silo-test"},
		DB:      config.DBConfig{Driver: config.StorageMemory},
		JWT:     config.JWTConfig{Secret: "s", Expiration: 10},
		Metrics: config.MetricsConfig{Enabled: metrics},
	}
}

func TestOpenStorage_Memoria(t *testing.T) {
	st, err := bootstrap.OpenStorage(context.Background(), memoryConfig(false).DB, logger.Nop())
	require.NoError(t, err)
	defer st.Close()

	assert.Nil(t, st.Pool)
	assert.NotNil(t, st.Tx)
	assert.NotNil(t, st.Movements)
}

func TestOpenStorage_DriverDesconocido(t *testing.T) {
	_, err := bootstrap.OpenStorage(context.Background(), config.DBConfig{Driver: "mongo"}, logger.Nop())
	assert.Error(t, err)
}

func TestNewServices_Metricas(t *testing.T) {
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	for _, enabled := range []bool{true, false} {
		cfg := memoryConfig(enabled)
		st, err := bootstrap.OpenStorage(context.Background(), cfg.DB, logger.Nop())
		require.NoError(t, err)

		svc := bootstrap.NewServices(cfg, st, clk, logger.Nop())
		require.NotNil(t, svc.Ledger)
		assert.Equal(t, enabled, svc.Gatherer != nil)
		assert.Equal(t, "s", svc.JWT.Secret)
	}
}
