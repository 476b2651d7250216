package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clinicboard/clinicboard/internal/config"
	"github.com/clinicboard/clinicboard/internal/domain/identity"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinicboard-server",
		Short: "Clinic operations dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// loadConfig loads and validates configuration; every subcommand starts here.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			target, _ := cmd.Flags().GetInt("to")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, os.DirFS(dir))
			var applied int
			if target > 0 {
				applied, err = migrator.UpTo(ctx, target)
			} else {
				applied, err = migrator.Up(ctx)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s)\n", applied)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	upCmd.Flags().Int("to", 0, "Stop after this migration version")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, os.DirFS(dir)).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-8s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-8d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff users",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			roleFlag, _ := cmd.Flags().GetString("role")
			email, _ := cmd.Flags().GetString("email")

			role, err := identity.ParseRole(roleFlag)
			if err != nil {
				return err
			}
			in := identity.CreateUserInput{Name: name, Role: role}
			if email = strings.TrimSpace(email); email != "" {
				in.Email = &email
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			u, err := identity.NewService(identity.NewUserRepoPG(pool)).Seed(ctx, in)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("Created user %s (%s)\n", u.ID, u.Role)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Display name")
	createCmd.Flags().String("role", string(identity.RoleStaff), "ADMIN, DOCTOR, NURSE or STAFF")
	createCmd.Flags().String("email", "", "Email address")
	_ = createCmd.MarkFlagRequired("name")
	cmd.AddCommand(createCmd)

	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage caller tokens",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawID, _ := cmd.Flags().GetString("user-id")
			role, _ := cmd.Flags().GetString("role")

			id, err := uuid.Parse(strings.TrimSpace(rawID))
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			token, err := auth.IssueToken(tokenConfig(cfg), auth.Caller{
				UserID: id,
				Role:   strings.ToUpper(strings.TrimSpace(role)),
			}, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	issueCmd.Flags().String("user-id", "", "User ID the token identifies")
	issueCmd.Flags().String("role", string(identity.RoleStaff), "Role claim")
	_ = issueCmd.MarkFlagRequired("user-id")
	cmd.AddCommand(issueCmd)

	return cmd
}

func tokenConfig(cfg *config.Config) auth.TokenConfig {
	return auth.TokenConfig{
		SigningKey: []byte(cfg.AuthSigningKey),
		Issuer:     cfg.AuthIssuer,
		TTL:        cfg.AuthTokenTTL,
	}
}
