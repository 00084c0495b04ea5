package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"corkboard-cli/internal/model"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsAccessCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsSaveCmd(app))
	cmd.AddCommand(newProjectsSavedCmd(app))
	cmd.AddCommand(newProjectsUnsaveCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name string
	var save bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := e.client.CreateProject(cmd.Context(), strings.TrimSpace(name))
			if err != nil {
				return writeErr(cmd, err)
			}
			if save {
				_ = e.state.UpsertSavedProject(cmd.Context(), model.SavedProject{
					ID:            p.ID,
					Name:          p.Name,
					Code:          p.AccessCode,
					EncryptedLink: p.EncryptedLink,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().BoolVar(&save, "save", false, "Also save the project to local shortcuts")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsAccessCmd(app *App) *cobra.Command {
	var code string
	var save bool

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Open a project by access code",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := e.client.AccessProject(cmd.Context(), strings.TrimSpace(code))
			if err != nil {
				return writeErr(cmd, err)
			}
			if save {
				_ = e.state.UpsertSavedProject(cmd.Context(), model.SavedProject{
					ID:            p.ID,
					Name:          p.Name,
					Code:          strings.TrimSpace(code),
					EncryptedLink: p.EncryptedLink,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Project access code")
	cmd.Flags().BoolVar(&save, "save", false, "Also save the project to local shortcuts")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := e.client.RenameProject(cmd.Context(), strings.TrimSpace(id), strings.TrimSpace(name))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Project id (encrypted link id)")
	cmd.Flags().StringVar(&name, "name", "", "New project name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsSaveCmd(app *App) *cobra.Command {
	var id, name, code string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a project shortcut locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := model.SavedProject{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), Code: strings.TrimSpace(code)}
			if err := e.state.UpsertSavedProject(cmd.Context(), p); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Project id")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&code, "code", "", "Access code (optional)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newProjectsSavedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List locally saved projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := e.state.LoadSavedProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if list == nil {
				list = []model.SavedProject{}
			}
			return writeOut(cmd, app, map[string]any{"data": list})
		},
	}
}

func newProjectsUnsaveCmd(app *App) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "unsave",
		Short: "Remove a locally saved project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := e.state.RemoveSavedProject(cmd.Context(), strings.TrimSpace(id)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{"removed": true}})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Project id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
