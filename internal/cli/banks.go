package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"qbank/internal/publish"
	"qbank/internal/resources"
)

func newBanksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "banks",
		Aliases: []string{"bank", "question-banks"},
		Short:   "Question bank commands",
	}
	cmd.AddCommand(newBanksListCmd(app))
	cmd.AddCommand(newBanksShowCmd(app))
	cmd.AddCommand(newBanksCreateCmd(app))
	cmd.AddCommand(newBanksRenameCmd(app))
	cmd.AddCommand(newBanksDeleteCmd(app))
	cmd.AddCommand(newBanksPublishCmd(app))
	return cmd
}

func requireFlag(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("missing --" + name)
	}
	return nil
}

func newBanksListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's question banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("project", projectID); err != nil {
				return writeErr(cmd, err)
			}
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			bs, err := api.ListQuestionBanks(cmd.Context(), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, bs)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	return cmd
}

func newBanksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <bank-id>",
		Short: "Show a question bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			b, err := api.GetQuestionBank(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, b)
		},
	}
}

func newBanksCreateCmd(app *App) *cobra.Command {
	var projectID string
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question bank in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			// A blank --project surfaces as the manager's missing scope error.
			m, err := resources.NewQuestionBankManager(api, projectID, nil, app.log)
			if err != nil {
				return writeErr(cmd, errors.New(resources.QuestionBankKind.MissingScopeMessage()))
			}
			b, err := createRecord(cmd.Context(), m, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, b)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&title, "title", "", "Question bank title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBanksRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <bank-id>",
		Short: "Rename a question bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetQuestionBank(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewQuestionBankManager(api, cur.ProjectID, nil, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := renameRecord(cmd.Context(), m, cur.ID, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, b)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBanksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <bank-id>",
		Short: "Delete a question bank with its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetQuestionBank(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewQuestionBankManager(api, cur.ProjectID, nil, app.log)
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

func newBanksPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish <bank-id>",
		Short: "Export a question bank as markdown pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			res, err := publish.WriteBank(cmd.Context(), api, args[0], to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
