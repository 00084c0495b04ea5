package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/format"
	"corkboard-cli/internal/remote"
	"corkboard-cli/internal/store"
	"corkboard-cli/internal/tui"
)

type App struct {
	ServerURL  string
	Dir        string
	BoardID    string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "corkboard",
		Short:        "Corkboard kanban CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board TUI
  corkboard --board <board-id>

  # Scriptable commands
  corkboard projects create --name "My project"
  corkboard cards add --board <board-id> --column <column-id> --title "Fix the thing"
  corkboard cards move --board <board-id> --card <card-id> --to-column <column-id> --index 0
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("CORKBOARD_SERVER", ""), "Backend base URL (default: serverUrl from config)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CORKBOARD_CONFIG_DIR", ""), "Path to config/state dir (advanced; default ~/.corkboard)")
	cmd.PersistentFlags().StringVar(&app.BoardID, "board", envOr("CORKBOARD_BOARD", ""), "Board id")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newColumnsCmd(app))
	cmd.AddCommand(newCardsCmd(app))
	cmd.AddCommand(newLabelsCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// env bundles everything a command needs: the remote client, the store wired
// to it, and the persisted local state.
type env struct {
	client *remote.Client
	store  *store.Store
	state  store.State
}

func loadEnv(app *App) (*env, error) {
	if app.Dir != "" {
		os.Setenv("CORKBOARD_CONFIG_DIR", app.Dir)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}

	serverURL := strings.TrimSpace(app.ServerURL)
	if serverURL == "" {
		serverURL = strings.TrimSpace(cfg.ServerURL)
	}
	if serverURL == "" {
		return nil, errors.New("no server configured; pass --server or run `corkboard config set --server <url>`")
	}

	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	st := store.State{Dir: dir}

	s := store.New(remote.New(serverURL))
	if boards, err := st.LoadBoards(context.Background()); err == nil {
		s.Hydrate(boards)
	}

	return &env{client: remote.New(serverURL), store: s, state: st}, nil
}

// persist writes the store's board cache back to local state. Best-effort: a
// persistence failure never fails the command that already succeeded remotely.
func (e *env) persist(ctx context.Context) {
	_ = e.state.SaveBoards(ctx, e.store.Export())
}

func requireBoard(app *App) (string, error) {
	if strings.TrimSpace(app.BoardID) == "" {
		return "", errors.New("no board selected; pass --board or set CORKBOARD_BOARD")
	}
	return strings.TrimSpace(app.BoardID), nil
}

// prefetchBoard stashes one fresh fetch in the store's handoff, so the board
// poller's first tick consumes it instead of refetching. Best-effort: on
// failure the poller simply fetches itself.
func (e *env) prefetchBoard(ctx context.Context, boardID string) {
	b, err := e.client.GetBoard(ctx, boardID)
	if err != nil {
		return
	}
	e.store.Handoff().Put(boardID, b)
}

func runTUI(app *App) error {
	e, err := loadEnv(app)
	if err != nil {
		return err
	}
	boardID, err := requireBoard(app)
	if err != nil {
		return err
	}
	e.prefetchBoard(context.Background(), boardID)
	theme, _ := e.state.ThemePref(context.Background())
	defer e.persist(context.Background())
	return tui.Run(tui.Options{
		Store:   e.store,
		BoardID: boardID,
		Theme:   theme,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
