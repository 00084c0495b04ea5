package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/move"
	"corkboard-cli/internal/remote"
)

func newColumnsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Column commands",
	}
	cmd.AddCommand(newColumnsAddCmd(app))
	cmd.AddCommand(newColumnsRenameCmd(app))
	cmd.AddCommand(newColumnsDeleteCmd(app))
	cmd.AddCommand(newColumnsMoveCmd(app))
	cmd.AddCommand(newColumnsSetLabelCmd(app))
	return cmd
}

func newColumnsAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a column",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			col, err := e.store.AddColumn(cmd.Context(), boardID, strings.TrimSpace(title))
			if err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": col})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Column title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newColumnsRenameCmd(app *App) *cobra.Command {
	var columnID, title string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a column",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := strings.TrimSpace(title)
			if err := e.store.UpdateColumn(cmd.Context(), boardID, columnID, remote.ColumnPatch{Title: &t}); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			b := e.store.GetBoard(boardID)
			return writeOut(cmd, app, map[string]any{"data": b.FindColumn(columnID)})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newColumnsDeleteCmd(app *App) *cobra.Command {
	var columnID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a column and its cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := e.store.DeleteColumn(cmd.Context(), boardID, columnID); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{"deleted": true}})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newColumnsMoveCmd(app *App) *cobra.Command {
	var columnID string
	var index int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a column to a new index",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := e.store.RefreshBoard(cmd.Context(), boardID); err != nil {
				return writeErr(cmd, err)
			}
			b := e.store.GetBoard(boardID)
			plan, ok := move.PlanColumnMove(b, columnID, index)
			if !ok {
				return writeErr(cmd, errNotFound("column", columnID))
			}
			if err := e.store.MoveColumn(cmd.Context(), boardID, plan.SourceIndex, plan.DestIndex); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": e.store.GetBoard(boardID)})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	cmd.Flags().IntVar(&index, "index", 0, "Target index (with the column lifted out)")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newColumnsSetLabelCmd(app *App) *cobra.Command {
	var columnID, labelID string
	var clear bool

	cmd := &cobra.Command{
		Use:   "set-label",
		Short: "Attach a label to a column (or clear it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			patch := remote.ColumnPatch{}
			if clear {
				empty := ""
				patch.LabelID = &empty
			} else {
				id := strings.TrimSpace(labelID)
				patch.LabelID = &id
			}
			if err := e.store.UpdateColumn(cmd.Context(), boardID, columnID, patch); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			b := e.store.GetBoard(boardID)
			return writeOut(cmd, app, map[string]any{"data": b.FindColumn(columnID)})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	cmd.Flags().StringVar(&labelID, "label", "", "Label id")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the column label")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}
