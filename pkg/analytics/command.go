package analytics

import (
	"fmt"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/config"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpserver"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/koanf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func Command() *cobra.Command {
	cnf := koanf.Provide("analytics", config.Config{
		Http: koanf.HttpServer{Address: ":8001"},
	})

	return &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("new logger: %w", err)
			}
			logger = logger.Named("analytics")

			handler, err := InitializeHttpHandler(cnf, logger)
			if err != nil {
				return fmt.Errorf("init http handler: %w", err)
			}

			return httpserver.RegisterAndStart(logger, cnf.Http.Address, handler)
		},
	}
}
