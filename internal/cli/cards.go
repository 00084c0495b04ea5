package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/move"
	"corkboard-cli/internal/remote"
)

func newCardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Card commands",
	}
	cmd.AddCommand(newCardsAddCmd(app))
	cmd.AddCommand(newCardsEditCmd(app))
	cmd.AddCommand(newCardsDeleteCmd(app))
	cmd.AddCommand(newCardsMoveCmd(app))
	return cmd
}

func newCardsAddCmd(app *App) *cobra.Command {
	var columnID, title, description, assignee string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to a column",
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
			card, err := e.store.AddCard(cmd.Context(), boardID, columnID, remote.CardDraft{
				Title:       strings.TrimSpace(title),
				Description: description,
				Assignee:    strings.TrimSpace(assignee),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if card.ID == "" {
				return writeErr(cmd, errNotFound("column", columnID))
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": card})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	cmd.Flags().StringVar(&title, "title", "", "Card title")
	cmd.Flags().StringVar(&description, "description", "", "Card description (markdown)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee name")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardsEditCmd(app *App) *cobra.Command {
	var cardID, title, description, assignee, toColumn string
	var labels []string
	var highlight string
	var complete, reopen bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit card fields (only the passed flags change)",
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

			patch := remote.CardPatch{}
			if cmd.Flags().Changed("title") {
				t := strings.TrimSpace(title)
				patch.Title = &t
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("assignee") {
				a := strings.TrimSpace(assignee)
				patch.Assignee = &a
			}
			if cmd.Flags().Changed("to-column") {
				c := strings.TrimSpace(toColumn)
				patch.ColumnID = &c
			}
			if cmd.Flags().Changed("labels") {
				ids := append([]string(nil), labels...)
				patch.LabelIDs = &ids
			}
			if cmd.Flags().Changed("highlight") {
				h := strings.TrimSpace(highlight)
				patch.HighlightLabelID = &h
			}
			if complete {
				v := true
				patch.IsCompleted = &v
			}
			if reopen {
				v := false
				patch.IsCompleted = &v
			}

			if err := e.store.UpdateCard(cmd.Context(), boardID, "", cardID, patch); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())

			b := e.store.GetBoard(boardID)
			col, idx, ok := b.FindCard(cardID)
			if !ok {
				return writeErr(cmd, errNotFound("card", cardID))
			}
			return writeOut(cmd, app, map[string]any{"data": col.Cards[idx]})
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Card id")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (markdown)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "New assignee")
	cmd.Flags().StringVar(&toColumn, "to-column", "", "Move the card to this column (appended at the end)")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Replace the card's label ids")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Highlight label id")
	cmd.Flags().BoolVar(&complete, "complete", false, "Mark the card completed")
	cmd.Flags().BoolVar(&reopen, "reopen", false, "Mark the card not completed")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

func newCardsDeleteCmd(app *App) *cobra.Command {
	var cardID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a card",
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
			if err := e.store.DeleteCard(cmd.Context(), boardID, "", cardID); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{"deleted": true}})
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Card id")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

func newCardsMoveCmd(app *App) *cobra.Command {
	var cardID, toColumn string
	var index int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a card to a column/index",
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
			dest := strings.TrimSpace(toColumn)
			if dest == "" {
				if col, _, ok := b.FindCard(cardID); ok {
					dest = col.ID
				}
			}
			plan, ok := move.PlanCardMove(b, cardID, dest, index)
			if !ok {
				return writeErr(cmd, errNotFound("card", cardID))
			}
			if err := e.store.MoveCard(cmd.Context(), boardID, plan.SourceColumnID, plan.DestColumnID, plan.SourceIndex, plan.DestIndex); err != nil {
				return writeErr(cmd, err)
			}
			e.persist(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": e.store.GetBoard(boardID)})
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Card id")
	cmd.Flags().StringVar(&toColumn, "to-column", "", "Destination column id (default: its current column)")
	cmd.Flags().IntVar(&index, "index", 0, "Target index (with the card lifted out)")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}
