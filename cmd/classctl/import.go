package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/classbridge-backend/internal/app"
)

var importCSVCmd = &cobra.Command{
	Use:   "import-csv",
	Short: "Append a schedule spreadsheet (CSV) to a subject",
	Long: "import-csv reads Chapter, Title, Date, Time and Teacher Email columns and imports every row " +
		"in one transaction. Dates are read in DISPLAY_TIMEZONE.",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectID, err := subjectFlag(cmd)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("file")
		defaultTime, _ := cmd.Flags().GetString("default-time")

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rows, err := readScheduleCSV(f, a.Cfg.DisplayLocation, defaultTime)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			p, err := adminPrincipal(ctx, cmd, a)
			if err != nil {
				return err
			}
			res, err := a.Services.Importer.ImportSchedule(ctx, p, subjectID, rows)
			if err != nil {
				return err
			}
			fmt.Println(res.Message)
			return nil
		})
	},
}

var resetScheduleCmd = &cobra.Command{
	Use:   "reset-schedule",
	Short: "Delete every chapter and lesson of a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectID, err := subjectFlag(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := adminPrincipal(ctx, cmd, a)
			if err != nil {
				return err
			}
			msg, err := a.Services.Importer.ResetSchedule(ctx, p, subjectID)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		})
	},
}

func init() {
	importCSVCmd.Flags().String("subject", "", "Subject id to import into")
	importCSVCmd.Flags().String("file", "", "Path to the CSV file")
	importCSVCmd.Flags().String("default-time", defaultLessonTime, "Lesson time (HH:MM) for rows without a Time column")
	_ = importCSVCmd.MarkFlagRequired("subject")
	_ = importCSVCmd.MarkFlagRequired("file")

	resetScheduleCmd.Flags().String("subject", "", "Subject id to reset")
	_ = resetScheduleCmd.MarkFlagRequired("subject")
}
