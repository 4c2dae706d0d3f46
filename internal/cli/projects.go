package cli

import (
	"github.com/spf13/cobra"

	"qbank/internal/resources"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current user's projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := currentUserID(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			ps, err := api.ListProjects(cmd.Context(), userID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ps)
		},
	}
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			p, err := api.GetProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p)
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project for the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := currentUserID(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			m, err := resources.NewProjectManager(api, userID, nil, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := createRecord(cmd.Context(), m, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <project-id>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewProjectManager(api, cur.UserID, nil, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := renameRecord(cmd.Context(), m, cur.ID, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with its question banks and questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewProjectManager(api, cur.UserID, nil, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := deleteRecord(cmd.Context(), m, cur.ID, yes); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, deleted{ID: cur.ID, Deleted: true})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the delete")
	return cmd
}
