package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := FromEnv()
	assert.Equal(t, "8000", cfg.APP_PORT)
	assert.Equal(t, "mongo", cfg.STORE_DRIVER)
	assert.Equal(t, "assessment_db", cfg.DATABASE)
	assert.Equal(t, "HS256", cfg.JWT_ALGORITHM)
	assert.Equal(t, 2*time.Hour, cfg.TOKEN_TTL)
	assert.Empty(t, cfg.JWT_SECRET)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_CONN_MAX_LIFETIME", "45")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.APP_PORT)
	assert.Equal(t, 6543, cfg.DB_PORT)
	assert.Equal(t, 30*time.Minute, cfg.TOKEN_TTL)
	assert.Equal(t, 45*time.Second, cfg.DB_CONN_MAX_LIFETIME)
	assert.Equal(t, 10, cfg.DB_MAX_IDLE_CONNS)
}

func TestLoadEnvConfigWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("STORE_DRIVER", "memory")

	assert.NoError(t, LoadEnvConfig())
	assert.Equal(t, "memory", DefaultEnvConfig.STORE_DRIVER)
}
