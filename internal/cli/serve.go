package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/dialog"
	"github.com/example/meetbot/internal/session"
	"github.com/example/meetbot/internal/telegram"
	"github.com/example/meetbot/internal/version"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			logger := deps.Logger
			if err := cfg.RequireBot(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := store.Close(); cerr != nil {
					logger.Error("failed to close database", "error", cerr)
				}
			}()

			if _, err := store.ensureAdmins(ctx, cfg.AdminIDs); err != nil {
				return err
			}
			complexes, err := store.facade.ListComplexes(ctx)
			if err != nil {
				return err
			}
			if len(complexes) == 0 {
				logger.Warn("catalog is empty, run `meetbot init` to seed complexes and organizations")
			}

			sessions := session.New[dialog.State](cfg.SessionIdleTimeout,
				session.WithExpiryHook(dialog.ExpiryLogger(logger)),
			)
			engine := dialog.NewEngine(store.facade, sessions,
				dialog.WithPageSize(cfg.PageSize),
				dialog.WithCodec(control.NewCodec(cfg.ControlSecret)),
				dialog.WithLogger(logger),
			)

			bot, err := telegram.Connect(cfg.BotToken, engine,
				telegram.WithPollTimeout(cfg.PollTimeout),
				telegram.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			logger.Info("starting meetbot",
				"version", version.Version,
				"admins", len(cfg.AdminIDs),
				"page_size", cfg.PageSize,
				"session_idle_timeout", cfg.SessionIdleTimeout.String(),
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				// The update channel can close on its own; stop the janitor too.
				defer cancel()
				return bot.Run(gctx)
			})
			g.Go(func() error {
				return sessions.Run(gctx, cfg.SessionSweepInterval)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			logger.Info("meetbot stopped", "open_sessions", sessions.Len())
			return nil
		},
	}
}
