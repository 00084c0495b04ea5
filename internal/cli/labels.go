package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newLabelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Label commands",
	}
	cmd.AddCommand(newLabelsListCmd(app))
	cmd.AddCommand(newLabelsAddCmd(app))
	cmd.AddCommand(newLabelsUpdateCmd(app))
	cmd.AddCommand(newLabelsDeleteCmd(app))
	return cmd
}

func newLabelsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the board's labels",
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
			return writeOut(cmd, app, map[string]any{"data": e.store.GetBoard(boardID).Labels})
		},
	}
}

func newLabelsAddCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a label",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			label, err := e.store.AddLabel(cmd.Context(), boardID, strings.TrimSpace(name), normalizeColor(color))
			if err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": label})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Label name")
	cmd.Flags().StringVar(&color, "color", "", "Label color (6 hex digits)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newLabelsUpdateCmd(app *App) *cobra.Command {
	var labelID, name, color string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename or recolor a label",
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
			if err := e.store.UpdateLabel(cmd.Context(), boardID, labelID, strings.TrimSpace(name), normalizeColor(color)); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			b := e.store.GetBoard(boardID)
			return writeOut(cmd, app, map[string]any{"data": b.FindLabel(labelID)})
		},
	}

	cmd.Flags().StringVar(&labelID, "label", "", "Label id")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color (6 hex digits)")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newLabelsDeleteCmd(app *App) *cobra.Command {
	var labelID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a label (references are cleared server-side)",
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
			if err := e.store.DeleteLabel(cmd.Context(), boardID, labelID); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{"deleted": true}})
		},
	}

	cmd.Flags().StringVar(&labelID, "label", "", "Label id")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func normalizeColor(c string) string {
	return strings.TrimPrefix(strings.TrimSpace(strings.ToLower(c)), "#")
}
