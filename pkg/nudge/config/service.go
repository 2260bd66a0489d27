package config

import (
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/koanf"
)

type Config struct {
	Postgres koanf.Postgres `koanf:"postgres"`

	// AutomationEnabled gates the deactivation sweep; the digest is always
	// computed. Explicit config, not an ambient env toggle.
	AutomationEnabled       bool                `koanf:"automation_enabled"`
	IntervalHours           int                 `koanf:"interval_hours"`
	JobPostingLifetimeDays  int                 `koanf:"job_posting_lifetime_days"`
	StaleThresholdDays      int                 `koanf:"stale_threshold_days"`
	Health                  funnel.HealthPolicy `koanf:"health"`
	PrometheusListenAddress string              `koanf:"prometheus_listen_address"`
}
