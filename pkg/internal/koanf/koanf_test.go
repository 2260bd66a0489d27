package koanf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testConfig struct {
	Postgres Postgres   `koanf:"postgres"`
	Http     HttpServer `koanf:"http"`
}

func TestProvideDefaults(t *testing.T) {
	cfg := Provide("analytics", testConfig{
		Http: HttpServer{Address: ":8001"},
	})

	assert.Equal(t, ":8001", cfg.Http.Address)
	assert.Empty(t, cfg.Postgres.Host)
}

func TestProvideEnvOverride(t *testing.T) {
	t.Setenv("HIREFLOW_ANALYTICS__POSTGRES__HOST", "db.internal")
	t.Setenv("HIREFLOW_ANALYTICS__HTTP__ADDRESS", ":9000")

	cfg := Provide("analytics", testConfig{
		Http: HttpServer{Address: ":8001"},
	})

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, ":9000", cfg.Http.Address)
}

func TestProvideEnvIgnoresOtherServices(t *testing.T) {
	t.Setenv("HIREFLOW_RECRUITING__POSTGRES__HOST", "other.internal")

	cfg := Provide("analytics", testConfig{})
	assert.Empty(t, cfg.Postgres.Host)
}
