package cli

import (
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Board commands",
	}
	cmd.AddCommand(newBoardShowCmd(app))
	cmd.AddCommand(newBoardRefreshCmd(app))
	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board (fetches fresh state unless --cached)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !cached {
				if _, err := e.store.RefreshBoard(cmd.Context(), boardID); err != nil {
					return writeErr(cmd, err)
				}
				e.persist(cmd.Context())
			}
			return writeOut(cmd, app, map[string]any{"data": e.store.GetBoard(boardID)})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Serve from the local cache without fetching")
	return cmd
}

func newBoardRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the board and update the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			changed, err := e.store.RefreshBoard(cmd.Context(), boardID)
			if err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{"changed": changed}})
		},
	}
}
