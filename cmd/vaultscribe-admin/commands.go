package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/crypto"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/store"
	"github.com/MKhiriev/vaultscribe/migrations"
	"github.com/MKhiriev/vaultscribe/models"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	driver     string
	dsn        string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "vaultscribe-admin",
		Short:         "Maintenance utility for the VaultScribe account database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "JSON config file path")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "Database driver (sqlite3 or pgx)")
	cmd.PersistentFlags().StringVarP(&opts.dsn, "dsn", "d", "", "Database DSN")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newAccountsCommand(opts))
	cmd.AddCommand(newSessionsCommand(opts))
	return cmd
}

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			db, err := store.NewConnect(cmd.Context(), cfg.Storage.DB, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			db, err := store.NewConnect(cmd.Context(), cfg.Storage.DB, log)
			if err != nil {
				return err
			}
			defer db.Close()

			provider, err := migrations.NewProvider(db.DB, db.Driver())
			if err != nil {
				return err
			}
			statuses, err := provider.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			t := table.New().Headers("VERSION", "STATE", "APPLIED AT")
			for _, s := range statuses {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
				}
				t.Row(fmt.Sprint(s.Source.Version), string(s.State), applied)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	})

	return cmd
}

func newAccountsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts with their hash scheme and second-factor state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorages(cmd.Context(), opts, func(cfg *config.StructuredConfig, storages *store.Storages, log *logger.Logger) error {
				accounts, err := storages.AccountRepository.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderAccounts(accounts))
				return nil
			})
		},
	})

	return cmd
}

func newSessionsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Session maintenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorages(cmd.Context(), opts, func(cfg *config.StructuredConfig, storages *store.Storages, log *logger.Logger) error {
				auth, err := service.NewAuthService(storages, *cfg, log)
				if err != nil {
					return err
				}
				n, err := auth.PurgeExpiredSessions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", n)
				return nil
			})
		},
	})

	return cmd
}

// load merges the config sources and applies the command-line overrides.
func (o *options) load() (*config.StructuredConfig, *logger.Logger, error) {
	cfg, err := config.GetConfigFromFile(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.driver != "" {
		cfg.Storage.DB.Driver = o.driver
	}
	if o.dsn != "" {
		cfg.Storage.DB.DSN = o.dsn
	}

	return cfg, logger.Nop(), nil
}

func withStorages(ctx context.Context, opts *options, fn func(*config.StructuredConfig, *store.Storages, *logger.Logger) error) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer storages.Close()

	return fn(cfg, storages, log)
}

func renderAccounts(accounts []models.Account) string {
	t := table.New().Headers("ID", "EMAIL", "HASH", "2FA")
	for _, a := range accounts {
		twoFactor := "no"
		if a.HasSecondFactor() {
			twoFactor = "yes"
		}
		t.Row(fmt.Sprint(a.ID), a.Email, hashScheme(a.PasswordHash), twoFactor)
	}
	return t.String()
}

// hashScheme names the algorithm of a stored hash without revealing it.
func hashScheme(hash string) string {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return "argon2id"
	case crypto.NewLegacyVerifier().Recognizes(hash):
		return "bcrypt (legacy)"
	case hash == "":
		return "-"
	default:
		return "unknown"
	}
}
