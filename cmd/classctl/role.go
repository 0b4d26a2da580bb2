package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/classbridge-backend/internal/app"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
)

var setRoleCmd = &cobra.Command{
	Use:   "set-role <email> <ADMIN|STUDENT>",
	Short: "Change the role of a user who has signed in at least once",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.ToLower(strings.TrimSpace(args[0]))
		role := types.Role(strings.ToUpper(strings.TrimSpace(args[1])))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", args[1])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			dbc := dbctx.New(ctx)
			u, err := a.Repos.Users.GetByEmail(dbc, email)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("no user with email %s", email)
			}
			if err := a.Repos.Users.UpdateRole(dbc, u.ID, role); err != nil {
				return err
			}
			fmt.Printf("%s is now %s.\n", email, role)
			return nil
		})
	},
}
