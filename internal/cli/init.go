package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/catalog"
)

func NewInitCmd(deps *Dependencies) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database, seed the catalog and register administrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entries := catalog.Default()
			if catalogPath != "" {
				loaded, err := catalog.LoadFile(catalogPath)
				if err != nil {
					return err
				}
				entries = loaded
			}

			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer store.Close()

			organizations, err := store.facade.Seed(ctx, entries)
			if err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			admins, err := store.ensureAdmins(ctx, deps.Config.AdminIDs)
			if err != nil {
				return err
			}

			printInitSummary(cmd, deps.Config.SQLitePath, entries, organizations, admins)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML file with complexes and organizations (defaults to the built-in catalog)")
	return cmd
}

func printInitSummary(cmd *cobra.Command, path string, entries []application.CatalogEntry, organizations, admins int) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	green.Fprintf(out, "Database ready: %s\n", path)
	fmt.Fprintf(out, "Complexes: %d\n", len(entries))
	fmt.Fprintf(out, "Organizations: %d\n", organizations)
	if admins == 0 {
		color.New(color.FgYellow).Fprintln(out, "No administrators configured. Set MEETBOT_ADMIN_IDS and run init again.")
		return
	}
	fmt.Fprintf(out, "Administrators: %d\n", admins)
}
