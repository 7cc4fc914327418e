package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "America/La_Paz", cfg.App.Timezone)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Admin.Complete())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("CORS_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("METRICS_ENABLED", "false")
	v.Set("ADMIN_USERNAME", "root")
	v.Set("ADMIN_PASSWORD", "secreto")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Admin.Complete())
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@db:5432/x", Host: "otro"}
	assert.Equal(t, "postgres://u:p@db:5432/x", c.ConnectionString())
}
