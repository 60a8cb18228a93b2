package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

func TestBuildDefaults(t *testing.T) {
	cfg := build(newTestViper())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, int64(10), cfg.Database.MaxConcurrentTxns)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 300, cfg.Cache.SuggestionTTLSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "exports", cfg.Storage.ExportPrefix)
	assert.Equal(t, 90, cfg.Engine.MaxLookbackDays)
	assert.Equal(t, 4, cfg.Engine.ImportWorkers)
}

func TestBuildEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "kitchen")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("ENGINE_RULES_PATH", "/etc/m2go/rules.yaml")
	t.Setenv("ENGINE_MAX_LOOKBACK_DAYS", "30")

	cfg := build(newTestViper())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "kitchen", cfg.Database.DBName)
	assert.Contains(t, cfg.Database.DSN(), "dbname=kitchen")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/etc/m2go/rules.yaml", cfg.Engine.RulesPath)
	assert.Equal(t, 30, cfg.Engine.MaxLookbackDays)
}

func TestLocationFallsBackToLocal(t *testing.T) {
	assert.Equal(t, time.Local, AppConfig{}.Location())
	assert.Equal(t, time.Local, AppConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "UTC", AppConfig{Timezone: "UTC"}.Location().String())
}
