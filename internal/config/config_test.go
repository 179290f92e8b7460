package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "DB_PORT", "MIGRATIONS", "DEMO_MODE", "AUTH_RATE_LIMIT", "AUTH_RATE_BURST"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.App.Migrations)
	assert.False(t, cfg.App.DemoMode)
	assert.Equal(t, 5.0, cfg.Auth.RateLimit)
	assert.Equal(t, 10, cfg.Auth.RateBurst)
	assert.False(t, cfg.Database.UsesDatabase())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "PostgreSQL")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("DEMO_MODE", "TRUE")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.App.Migrations)
	assert.True(t, cfg.App.DemoMode)
	assert.Equal(t, 0.5, cfg.Auth.RateLimit)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Database.UsesDatabase())
}

func TestNormalizeDriver(t *testing.T) {
	tests := map[string]string{
		"postgres": DriverPostgres,
		"pg":       DriverPostgres,
		"sqlite3":  DriverSQLite,
		"SQLite":   DriverSQLite,
		"memory":   DriverMemory,
		"bogus":    DriverMemory,
	}
	for in, want := range tests {
		if got := normalizeDriver(in); got != want {
			t.Errorf("normalizeDriver(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.URL())
}
