package koanf

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "HIREFLOW_"

// Provide loads service configuration in two layers: the defaults struct
// first, then HIREFLOW_<SERVICE>__<SECTION>__<KEY> environment variables on
// top of it.
func Provide[T any](service string, defaults T) T {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		panic(fmt.Errorf("load defaults: %w", err))
	}

	prefix := envPrefix + strings.ToUpper(service) + "__"
	err := k.Load(env.Provider(prefix, ".", func(key string) string {
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}), nil)
	if err != nil {
		panic(fmt.Errorf("load env: %w", err))
	}

	var cfg T
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Errorf("unmarshal config: %w", err))
	}

	return cfg
}
