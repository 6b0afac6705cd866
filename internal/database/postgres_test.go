package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		DBName:   "employees",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=employees sslmode=disable", cfg.DSN())
}
