// commands.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"founders-fest/controllers"
	"founders-fest/services"
	"founders-fest/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB loads configuration and returns a migrated database.
func openDB() (*gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := openDB(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
			return nil
		},
	}
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin allow-list",
	}
	cmd.AddCommand(adminGrantCmd(), adminRevokeCmd())
	return cmd
}

func adminGrantCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Allow a user into the admin area, creating the user when --password is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			identity := store.NewIdentity(db)
			ctx := cmd.Context()

			var userID uint
			if password != "" {
				hash, err := controllers.HashPassword(password)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				u, err := identity.CreateUser(ctx, email, hash)
				if err != nil {
					return err
				}
				userID = u.ID
			} else {
				u, err := identity.UserByEmail(ctx, email)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no user %s; pass --password to create one", email)
				}
				if err != nil {
					return err
				}
				userID = u.ID
			}

			if err := identity.GrantAdmin(ctx, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted admin to %s (user %d)\n", email, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "set or reset the user's password")
	return cmd
}

func adminRevokeCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Remove a user from the admin allow-list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			identity := store.NewIdentity(db)
			u, err := identity.UserByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			if err := identity.RevokeAdmin(cmd.Context(), u.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%s is not an admin", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked admin from %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	return cmd
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load initial content and settings from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			seed, err := services.ParseSeedFile(f)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			rep, err := services.NewSeeder(store.NewCollections(db), store.NewSettings(db)).Seed(cmd.Context(), seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d items and %d settings\n", rep.Items, rep.Settings)
			if len(rep.Skipped) > 0 {
				fmt.Fprintf(out, "Skipped existing content: %s\n", strings.Join(rep.Skipped, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "path to the seed file")
	return cmd
}
