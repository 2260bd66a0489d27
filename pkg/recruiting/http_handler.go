package recruiting

import (
	"fmt"

	"github.com/hireflow-io/hireflow-engine/pkg/internal/postgres"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/config"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/db"
	"go.uber.org/zap"
)

type HttpHandler struct {
	db     db.Database
	logger *zap.Logger
}

func InitializeHttpHandler(cnf config.Config, logger *zap.Logger) (*HttpHandler, error) {
	cfg := postgres.Config{
		Host:    cnf.Postgres.Host,
		Port:    cnf.Postgres.Port,
		User:    cnf.Postgres.Username,
		Passwd:  cnf.Postgres.Password,
		DB:      cnf.Postgres.DB,
		SSLMode: cnf.Postgres.SSLMode,
	}
	orm, err := postgres.NewClient(&cfg, logger.Named("postgres"))
	if err != nil {
		return nil, fmt.Errorf("new postgres client: %w", err)
	}

	database := db.NewDatabase(orm)
	if err := database.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	logger.Info("initialized postgres database", zap.String("db", cnf.Postgres.DB))

	return &HttpHandler{
		db:     database,
		logger: logger,
	}, nil
}
