package config

import "github.com/hireflow-io/hireflow-engine/pkg/internal/koanf"

type Config struct {
	Postgres koanf.Postgres   `koanf:"postgres"`
	Http     koanf.HttpServer `koanf:"http"`
}
