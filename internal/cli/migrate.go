package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/persistence/sqlite"
	"github.com/example/meetbot/internal/persistence/sqlite/migration"
)

func NewMigrateCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := sqlite.NewConnectionPool(ctx, migration.DefaultSQLiteConfig(deps.Config.SQLitePath))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer pool.Close()

			applied, err := pool.Migrate(ctx, deps.Logger)
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.AddCommand(newMigrateStatusCmd(deps))
	return cmd
}

func newMigrateStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := sqlite.NewConnectionPool(ctx, migration.DefaultSQLiteConfig(deps.Config.SQLitePath))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer pool.Close()

			status, err := pool.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			printMigrationStatus(cmd, status)
			return nil
		},
	}
}

func printMigrationStatus(cmd *cobra.Command, status migration.Status) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)

	current := status.CurrentVersion
	if current == "" {
		current = "none"
	}
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("Current version:"), current)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("VERSION"), bold.Sprint("STATE"), bold.Sprint("DETAIL"))
	for _, m := range status.Applied {
		tbl.AddRow(m.Version, color.GreenString("applied"), m.AppliedAt.Local().Format("2006-01-02 15:04:05"))
	}
	for _, m := range status.Pending {
		tbl.AddRow(m.Version, color.YellowString("pending"), m.Description)
	}
	fmt.Fprintln(out, tbl)
}
