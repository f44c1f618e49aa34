package app

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/db"
	"github.com/contestify/contest-api/internal/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			// Opening the database migrates the schema.
			_, postgresDB, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			zap.L().Info("schema is up to date")

			return db.Close(postgresDB)
		},
	}
}
