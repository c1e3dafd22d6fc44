package cli

import (
	"context"
	"fmt"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/cli/formatter"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage cases and todos",
	}

	cmd.AddCommand(
		newItemCreateCmd(app),
		newItemListCmd(app),
		newItemCompleteCmd(app),
		newItemShowCmd(app),
	)

	return cmd
}

func newItemCreateCmd(app *App) *cobra.Command {
	var kind, title, description, number, assignTo string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a case or todo with its tracking control",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			w := &domain.WorkItem{
				Kind:        domain.WorkItemKind(kind),
				Number:      number,
				Title:       title,
				Description: description,
				CreatedBy:   userID,
			}
			if assignTo != "" {
				w.AssignedTo = &assignTo
			}

			if err := app.WorkItems.Create(ctx, w); err != nil {
				return err
			}

			fmt.Printf("Created %s %s (%s)\n", kind, w.Number, w.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "case", "Item kind (case|todo)")
	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&description, "description", "", "Item description")
	cmd.Flags().StringVar(&number, "number", "", "Natural key (generated when empty)")
	cmd.Flags().StringVar(&assignTo, "assign", "", "Assignee user ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			items, err := app.WorkItems.List(ctx, domain.WorkItemKind(kind))
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No work items.")
				return nil
			}

			headers := []string{"NUMBER", "KIND", "TITLE", "DONE", "ID"}
			var rows [][]string
			for _, w := range items {
				rows = append(rows, []string{
					w.Number,
					string(w.Kind),
					w.Title,
					formatter.YesNo(w.IsCompleted),
					w.ID,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (case|todo)")

	return cmd
}

func newItemCompleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <item-id>",
		Short: "Mark a todo as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.WorkItems.CompleteTodo(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Completed todo %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show a work item and its control",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			w, err := app.WorkItems.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			ctrl, err := app.WorkItems.GetControl(ctx, w.ID)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s — %s\n", string(w.Kind), w.Number, w.Title)
			fmt.Printf("  status:  %s\n", formatter.StatusLabel(ctrl.Status))
			fmt.Printf("  owner:   %s\n", ctrl.UserID)
			fmt.Printf("  logged:  %s\n", formatter.FormatMinutes(ctrl.TotalTimeMinutes))
			if ctrl.IsTimerActive && ctrl.TimerStartAt != nil {
				fmt.Printf("  timer:   running since %s\n", ctrl.TimerStartAt.Format("2006-01-02 15:04"))
			} else {
				fmt.Printf("  timer:   idle\n")
			}
			return nil
		},
	}
	return cmd
}
