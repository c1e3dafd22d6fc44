package cli

import (
	"context"
	"fmt"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/cli/formatter"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/service"
	"github.com/spf13/cobra"
)

func newTimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Manage the time ledger of a control",
	}

	cmd.AddCommand(
		newTimeAddCmd(app),
		newTimeListCmd(app),
		newTimeDeleteCmd(app),
	)

	return cmd
}

func newTimeAddCmd(app *App) *cobra.Command {
	var controlID, date, description string
	var minutes int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manual time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			entry, err := app.Ledger.AddManual(ctx, controlID, date, minutes, description, userID)
			if err != nil {
				return err
			}

			fmt.Printf("Added %s on %s (%s)\n",
				formatter.FormatMinutes(entry.DurationMinutes), entry.Date, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&controlID, "control", "", "Control ID")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Duration in minutes")
	cmd.Flags().StringVar(&description, "description", "", "What the time was spent on")
	_ = cmd.MarkFlagRequired("control")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("minutes")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newTimeListCmd(app *App) *cobra.Command {
	var controlID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List automatic and manual entries of a control",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			entries, err := app.Ledger.ListEntries(ctx, controlID)
			if err != nil {
				return err
			}

			if len(entries.TimeEntries) == 0 && len(entries.ManualEntries) == 0 {
				fmt.Println("No time entries.")
				return nil
			}

			headers := []string{"TYPE", "WHEN", "MINUTES", "DESCRIPTION", "ID"}
			var rows [][]string
			for _, e := range entries.TimeEntries {
				minutes := fmt.Sprintf("%d", e.DurationMinutes)
				if e.Running() {
					minutes = "running"
				}
				rows = append(rows, []string{
					"timer",
					e.StartTime.Format("2006-01-02 15:04"),
					minutes,
					e.Description,
					e.ID,
				})
			}
			for _, m := range entries.ManualEntries {
				rows = append(rows, []string{
					"manual",
					m.Date,
					fmt.Sprintf("%d", m.DurationMinutes),
					m.Description,
					m.ID,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&controlID, "control", "", "Control ID")
	_ = cmd.MarkFlagRequired("control")

	return cmd
}

func newTimeDeleteCmd(app *App) *cobra.Command {
	var manual bool

	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a time entry (owner or privileged role)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, role := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			var result *service.DeleteEntryResult
			var err error
			if manual {
				result, err = app.Ledger.DeleteManualEntry(ctx, args[0], userID, domain.Role(role))
			} else {
				result, err = app.Ledger.DeleteTimeEntry(ctx, args[0], userID, domain.Role(role))
			}
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %s. Control total is now %s\n",
				result.DeletedID, formatter.FormatMinutes(result.NewTotalMinutes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "Delete a manual entry instead of an automatic one")

	return cmd
}
