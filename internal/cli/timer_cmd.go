package cli

import (
	"context"
	"fmt"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/cli/formatter"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, pause, and stop work timers",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerPauseCmd(app),
		newTimerStopCmd(app),
	)

	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <control-id>",
		Short: "Start the timer (pauses any other running timer you own)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			ctrl, err := app.Timer.Start(ctx, args[0], userID)
			if err != nil {
				return err
			}

			fmt.Printf("Timer running on control %s since %s\n",
				ctrl.ID, ctrl.TimerStartAt.Format("15:04:05"))
			return nil
		},
	}
	return cmd
}

func newTimerPauseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause <control-id>",
		Short: "Pause the running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			ctrl, err := app.Timer.Pause(ctx, args[0], userID)
			if err != nil {
				return err
			}

			fmt.Printf("Timer paused. Total logged: %s\n", formatter.FormatMinutes(ctrl.TotalTimeMinutes))
			return nil
		},
	}
	return cmd
}

func newTimerStopCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "stop <control-id>",
		Short: "Stop the running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			ctrl, err := app.Timer.Stop(ctx, args[0], userID, domain.ControlStatus(status))
			if err != nil {
				return err
			}

			fmt.Printf("Timer stopped (%s). Total logged: %s\n",
				formatter.StatusLabel(ctrl.Status), formatter.FormatMinutes(ctrl.TotalTimeMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Final control status (default stopped)")

	return cmd
}
