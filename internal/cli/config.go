package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Local configuration",
	}
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dir != "" {
				os.Setenv("CORKBOARD_CONFIG_DIR", app.Dir)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var server, theme string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dir != "" {
				os.Setenv("CORKBOARD_CONFIG_DIR", app.Dir)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = strings.TrimSpace(server)
			}
			if cmd.Flags().Changed("theme") {
				cfg.Theme = strings.TrimSpace(theme)
				dir, err := store.ConfigDir()
				if err == nil {
					_ = store.State{Dir: dir}.SetThemePref(cmd.Context(), cfg.Theme)
				}
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Backend base URL")
	cmd.Flags().StringVar(&theme, "theme", "", "UI theme (dark|light)")
	return cmd
}
