package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/model"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsListCmd(app))
	cmd.AddCommand(newCommentsAddCmd(app))
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	var cardID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a card's comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := e.store.RefreshComments(cmd.Context(), boardID, cardID); err != nil {
				return writeErr(cmd, err)
			}
			list := e.store.Comments(boardID, cardID)
			if list == nil {
				list = []model.Comment{}
			}
			return writeOut(cmd, app, map[string]any{"data": list})
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Card id")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

func newCommentsAddCmd(app *App) *cobra.Command {
	var cardID, author, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a comment to a card",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boardID, err := requireBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := e.store.AddComment(cmd.Context(), boardID, cardID, strings.TrimSpace(author), content)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Card id")
	cmd.Flags().StringVar(&author, "author", "", "Comment author")
	cmd.Flags().StringVar(&content, "content", "", "Comment text (markdown)")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
