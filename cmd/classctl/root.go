package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/classbridge-backend/internal/app"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
)

var rootCmd = &cobra.Command{
	Use:           "classctl",
	Short:         "ClassBridge admin tooling",
	Long:          "classctl runs operator tasks against the ClassBridge database: migrations, schedule imports and resets, role changes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("admin", "", "Email of the admin account the command acts as")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCSVCmd)
	rootCmd.AddCommand(resetScheduleCmd)
	rootCmd.AddCommand(setRoleCmd)
}

// adminPrincipal resolves --admin to a principal. The account must already hold the ADMIN role.
func adminPrincipal(ctx context.Context, cmd *cobra.Command, a *app.App) (types.Principal, error) {
	email, _ := cmd.Flags().GetString("admin")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return types.Principal{}, fmt.Errorf("--admin is required")
	}
	u, err := a.Repos.Users.GetByEmail(dbctx.New(ctx), email)
	if err != nil {
		return types.Principal{}, fmt.Errorf("look up %s: %w", email, err)
	}
	if u == nil {
		return types.Principal{}, fmt.Errorf("no user with email %s", email)
	}
	if u.Role != types.RoleAdmin {
		return types.Principal{}, fmt.Errorf("%s is not an admin", email)
	}
	return types.Principal{UserID: u.ID, Role: u.Role}, nil
}

func subjectFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("subject")
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("--subject must be a subject id: %w", err)
	}
	return id, nil
}

// withApp builds the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
