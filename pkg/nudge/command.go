package nudge

import (
	"fmt"

	"github.com/hireflow-io/hireflow-engine/pkg/internal/koanf"
	"github.com/hireflow-io/hireflow-engine/pkg/nudge/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func WorkerCommand() *cobra.Command {
	cnf := koanf.Provide("nudge", config.Config{
		AutomationEnabled: true,
	})

	return &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("new logger: %w", err)
			}
			logger = logger.Named("nudge")

			worker, err := NewWorker(cnf, logger)
			if err != nil {
				return fmt.Errorf("new worker: %w", err)
			}

			return worker.Run(cmd.Context())
		},
	}
}
