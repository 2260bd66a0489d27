package config

import (
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/koanf"
)

type Config struct {
	Postgres koanf.Postgres   `koanf:"postgres"`
	Redis    koanf.Redis      `koanf:"redis"`
	Http     koanf.HttpServer `koanf:"http"`

	CacheTTLMinutes    int                 `koanf:"cache_ttl_minutes"`
	StaleThresholdDays int                 `koanf:"stale_threshold_days"`
	Health             funnel.HealthPolicy `koanf:"health"`
}
