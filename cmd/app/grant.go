package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/db"
	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/logger"
	"github.com/contestify/contest-api/internal/repository"
	"github.com/contestify/contest-api/internal/repository/dao"
	"github.com/contestify/contest-api/internal/service"
)

// grantRoleCmd bootstraps the first admin, who cannot be promoted over HTTP.
func grantRoleCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "grant-role <email>",
		Short: "Set the role of an existing user",
		Example: `  contestify grant-role ada@example.com
  contestify grant-role bob@example.com --role creator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, postgresDB, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer func() { _ = db.Close(postgresDB) }()

			userRepo := repository.NewUserRepository(dao.NewUserDAO(postgresDB))
			svc := service.NewUserService(userRepo, service.NewAdminPolicy(userRepo), 1)

			user, err := svc.GrantRole(cmd.Context(), strings.ToLower(strings.TrimSpace(args[0])), domain.Role(role))
			if err != nil {
				return fmt.Errorf("svc.GrantRole -> %w", err)
			}

			zap.L().Info("role granted", zap.String("email", user.Email), zap.String("role", string(user.Role)))

			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", string(domain.RoleAdmin), "role to grant (user, creator, admin)")

	return cmd
}
