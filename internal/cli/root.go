package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/config"
	"github.com/example/meetbot/internal/version"
)

// Dependencies carries what every command needs.
type Dependencies struct {
	Config config.Config
	Logger *slog.Logger
	Out    io.Writer
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	rootCmd := &cobra.Command{
		Use:           "meetbot",
		Short:         "Telegram bot for logging meetings with organizations",
		Long:          "A Telegram bot that lets registered staff log, browse and edit meetings held with organizations of the government complexes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.SetOut(deps.Out)

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewInitCmd(deps))
	rootCmd.AddCommand(NewMigrateCmd(deps))
	rootCmd.AddCommand(NewUsersCmd(deps))
	rootCmd.AddCommand(NewStatsCmd(deps))
	rootCmd.AddCommand(NewVersionCmd(deps))

	return rootCmd
}
