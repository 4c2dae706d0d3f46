package resources

import (
	"github.com/rs/zerolog"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
)

// NewProjectManager manages userID's projects. Opening a project navigates to
// its assessments.
func NewProjectManager(api API, userID string, navigator nav.Navigator, log zerolog.Logger) (*collection.Manager[model.Project], error) {
	return collection.New(ProjectKind, userID, Projects(api),
		collection.WithNavigator[model.Project](navigator, ProjectRoute),
		collection.WithLogger[model.Project](log),
	)
}

// NewQuestionBankManager manages projectID's question banks. A newly created
// bank is opened right away.
func NewQuestionBankManager(api API, projectID string, navigator nav.Navigator, log zerolog.Logger) (*collection.Manager[model.QuestionBank], error) {
	opts := []collection.Option[model.QuestionBank]{
		collection.WithNavigator[model.QuestionBank](navigator, QuestionBankRoute),
		collection.WithLogger[model.QuestionBank](log),
	}
	if navigator != nil {
		opts = append(opts, collection.WithAfterCreate(func(b model.QuestionBank) {
			path, state := QuestionBankRoute(b)
			navigator.NavigateTo(path, state)
		}))
	}
	return collection.New(QuestionBankKind, projectID, QuestionBanks(api), opts...)
}

// NewQuestionManager manages questionBankID's questions. Questions have no
// detail route; the view opens them in a dialog instead.
func NewQuestionManager(api API, questionBankID string, log zerolog.Logger) (*collection.Manager[model.Question], error) {
	return collection.New(QuestionKind, questionBankID, Questions(api),
		collection.WithLogger[model.Question](log),
	)
}
