package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/application"
)

func NewUsersCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users allowed to talk to the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer store.Close()

			users, err := store.facade.ListUsers(ctx)
			if err != nil {
				return err
			}
			printUsers(cmd, users)
			return nil
		},
	}

	cmd.AddCommand(newUsersAddCmd(deps))
	cmd.AddCommand(newUsersRemoveCmd(deps))
	return cmd
}

func newUsersAddCmd(deps *Dependencies) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "add <telegram-id> <name>",
		Short: "Register a user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := application.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			role := application.RoleOperator
			if admin {
				role = application.RoleAdministrator
			}

			ctx := cmd.Context()
			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := store.facade.CreateUser(ctx, application.UserInput{
				Identity:    identity,
				DisplayName: strings.Join(args[1:], " "),
				Role:        role,
			})
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added %s (%d) as %s\n", user.DisplayName, user.Identity, user.Role.Label())
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "grant the administrator role")
	return cmd
}

func newUsersRemoveCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <telegram-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := application.ParseIdentity(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.facade.DeleteUser(ctx, identity); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Removed %d\n", identity)
			return nil
		},
	}
}

func printUsers(cmd *cobra.Command, users []application.User) {
	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintln(out, "No users registered")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("NAME"), bold.Sprint("ROLE"), bold.Sprint("REGISTERED"))
	for _, u := range users {
		role := u.Role.Label()
		if u.IsAdmin() {
			role = color.CyanString(role)
		}
		tbl.AddRow(u.Identity, u.DisplayName, role, u.RegisteredAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, tbl)
}
