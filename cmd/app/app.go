package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/db"
	"github.com/contestify/contest-api/internal/logger"
)

var configPath string

// Execute runs the root command. Without a subcommand the API server starts.
func Execute() error {
	root := &cobra.Command{
		Use:           "contestify",
		Short:         "Contest hosting API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./cmd/app/config.yml", "path to the YAML config file")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(grantRoleCmd())

	return root.Execute()
}

// bootstrap loads the config, installs the logger and opens the database.
func bootstrap() (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		zap.L().Warn("invalid log level, keeping info", zap.String("level", conf.API.LogLevel))
	}

	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, postgresDB, nil
}
