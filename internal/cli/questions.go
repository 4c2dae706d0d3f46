package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qbank/internal/model"
	"qbank/internal/resources"
)

func newQuestionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"question"},
		Short:   "Question commands",
	}
	cmd.AddCommand(newQuestionsListCmd(app))
	cmd.AddCommand(newQuestionsShowCmd(app))
	cmd.AddCommand(newQuestionsCreateCmd(app))
	cmd.AddCommand(newQuestionsRenameCmd(app))
	cmd.AddCommand(newQuestionsDescribeCmd(app))
	cmd.AddCommand(newQuestionsDeleteCmd(app))
	return cmd
}

func newQuestionsListCmd(app *App) *cobra.Command {
	var bankID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a question bank's questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("bank", bankID); err != nil {
				return writeErr(cmd, err)
			}
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			qs, err := api.ListQuestions(cmd.Context(), bankID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, qs)
		},
	}

	cmd.Flags().StringVar(&bankID, "bank", "", "Question bank id")
	return cmd
}

func newQuestionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <question-id>",
		Short: "Show a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			q, err := api.GetQuestion(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, q)
		},
	}
}

func newQuestionsCreateCmd(app *App) *cobra.Command {
	var bankID string
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question in a question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			m, err := resources.NewQuestionManager(api, bankID, app.log)
			if err != nil {
				return writeErr(cmd, errors.New(resources.QuestionKind.MissingScopeMessage()))
			}
			if err := m.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			q, err := m.CreateWith(cmd.Context(), model.Draft{Title: title, Description: description})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, q)
		},
	}

	cmd.Flags().StringVar(&bankID, "bank", "", "Question bank id")
	cmd.Flags().StringVar(&title, "title", "", "Question title")
	cmd.Flags().StringVar(&description, "description", "", "Question description (markdown)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newQuestionsRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <question-id>",
		Short: "Rename a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetQuestion(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewQuestionManager(api, cur.QuestionBankID, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			q, err := renameRecord(cmd.Context(), m, cur.ID, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, q)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newQuestionsDescribeCmd(app *App) *cobra.Command {
	var description string
	var file string

	cmd := &cobra.Command{
		Use:   "describe <question-id>",
		Short: "Set a question's markdown description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := descriptionInput(cmd, description, file)
			if err != nil {
				return writeErr(cmd, err)
			}
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			q, err := api.SetQuestionDescription(cmd.Context(), args[0], desc)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, q)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&file, "file", "", "Read the description from a file (- for stdin)")
	return cmd
}

func descriptionInput(cmd *cobra.Command, description, file string) (string, error) {
	switch {
	case file != "" && cmd.Flags().Changed("description"):
		return "", errors.New("use either --description or --file")
	case file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), err
	case cmd.Flags().Changed("description"):
		return description, nil
	}
	return "", errors.New("missing --description or --file")
}

func newQuestionsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <question-id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := openAPI(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			cur, err := api.GetQuestion(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := resources.NewQuestionManager(api, cur.QuestionBankID, app.log)
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
