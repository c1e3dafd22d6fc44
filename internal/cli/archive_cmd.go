package cli

import (
	"context"
	"fmt"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/cli/formatter"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive work items and manage snapshots",
	}

	cmd.AddCommand(
		newArchiveCreateCmd(app),
		newArchiveListCmd(app),
		newArchiveRestoreCmd(app),
		newArchiveDeleteCmd(app),
		newArchiveStatsCmd(app),
	)

	return cmd
}

func newArchiveCreateCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "create <item-id>",
		Short: "Freeze a work item and its ledger into a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			snap, err := app.Archive.Archive(ctx, args[0], userID, reason)
			if err != nil {
				return err
			}

			fmt.Printf("Archived %s %s as snapshot %s (%s logged)\n",
				string(snap.WorkItemKind), snap.WorkItemNumber, snap.ID,
				formatter.FormatMinutes(snap.TotalTimeMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the item is being archived")

	return cmd
}

func newArchiveListCmd(app *App) *cobra.Command {
	var page, limit int
	var search, kind, sortBy, sortOrder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, err := app.Archive.List(ctx, repository.SnapshotListQuery{
				Page:      page,
				Limit:     limit,
				Search:    search,
				Kind:      domain.WorkItemKind(kind),
				SortBy:    sortBy,
				SortOrder: sortOrder,
			})
			if err != nil {
				return err
			}
			if len(result.Snapshots) == 0 {
				fmt.Println("No snapshots.")
				return nil
			}

			headers := []string{"NUMBER", "KIND", "TITLE", "LOGGED", "ARCHIVED", "RESTORED", "ID"}
			var rows [][]string
			for _, s := range result.Snapshots {
				rows = append(rows, []string{
					s.WorkItemNumber,
					string(s.WorkItemKind),
					s.Title,
					formatter.FormatMinutes(s.TotalTimeMinutes),
					s.ArchivedAt.Format("2006-01-02"),
					formatter.YesNo(s.IsRestored),
					s.ID,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			fmt.Printf("\nPage %d (%d total)\n", result.Page, result.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().StringVar(&search, "search", "", "Match against number or title")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (case|todo)")
	cmd.Flags().StringVar(&sortBy, "sort", "archived_at", "Sort column (archived_at|title|number|total_time_minutes)")
	cmd.Flags().StringVar(&sortOrder, "order", "desc", "Sort order (asc|desc)")

	return cmd
}

func newArchiveRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Reconstruct live rows from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, _ := identityFromFlags(cmd)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			result, err := app.Restore.Restore(ctx, args[0], userID)
			if err != nil {
				return err
			}

			fmt.Printf("Restored work item %s\n", result.WorkItemID)
			if result.Warning != nil {
				fmt.Printf("WARNING: %s\n", result.Warning.Error())
				fmt.Println("The snapshot was kept for manual reconciliation.")
			}
			return nil
		},
	}
	return cmd
}

func newArchiveDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Permanently delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if !force {
				confirmed := false
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title(fmt.Sprintf("Permanently delete snapshot %s? The archived data cannot be recovered.", args[0])).
							Affirmative("Delete").
							Negative("Keep").
							Value(&confirmed),
					),
				)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := app.Archive.DeletePermanently(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted snapshot %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

func newArchiveStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive store aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			stats, err := app.Archive.Stats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Snapshots: %d (%d cases, %d todos)\n",
				stats.TotalSnapshots, stats.Cases, stats.Todos)
			fmt.Printf("Restored:  %d\n", stats.Restored)
			fmt.Printf("Archived time: %s\n", formatter.FormatMinutes(stats.TotalMinutes))
			return nil
		},
	}
	return cmd
}
