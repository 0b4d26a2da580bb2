package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/classbridge-backend/internal/app"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.LoadDotEnv(); err != nil {
			return err
		}
		log, err := logger.New(os.Getenv("LOG_MODE"))
		if err != nil {
			return err
		}
		defer log.Sync()
		cfg, err := app.LoadConfig(log)
		if err != nil {
			return err
		}
		dbs, err := app.OpenDB(log, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Schema is up to date (%s).\n", dbs.Driver())
		return dbs.Close()
	},
}
