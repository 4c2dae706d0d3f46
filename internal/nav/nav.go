// Package nav is the path-based navigation surface shared by the collection
// views: a Navigator that accepts a path plus a small state payload, the route
// table, and a back-stack.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnknownRoute = errors.New("unknown route")

// Navigator pushes a new location. state carries display hints for the target
// view (e.g. the project title) and may be nil.
type Navigator interface {
	NavigateTo(path string, state map[string]string)
}

type NavigatorFunc func(path string, state map[string]string)

func (f NavigatorFunc) NavigateTo(path string, state map[string]string) { f(path, state) }

type RouteName string

const (
	RouteProjects      RouteName = "projects"
	RouteAssessments   RouteName = "assessments"
	RouteQuestionBanks RouteName = "questionBanks"
	RouteQuestions     RouteName = "questions"
)

// StateProjectTitle is the state key the projects view sets when opening a project.
const StateProjectTitle = "projectTitle"

// StateQuestionBankTitle is set when opening a question bank.
const StateQuestionBankTitle = "questionBankTitle"

type Route struct {
	Name           RouteName
	Path           string
	ProjectID      string
	QuestionBankID string
	State          map[string]string
}

func (r Route) StateValue(k string) string {
	if r.State == nil {
		return ""
	}
	return r.State[k]
}

func ProjectsPath() string { return "/projects" }

func AssessmentsPath(projectID string) string {
	return "/projects/" + url.PathEscape(projectID) + "/assessments"
}

func QuestionBanksPath(projectID string) string {
	return "/projects/" + url.PathEscape(projectID) + "/questionBanks"
}

func QuestionBankPath(projectID, questionBankID string) string {
	return QuestionBanksPath(projectID) + "/" + url.PathEscape(questionBankID)
}

// Parse resolves a path against the route table:
//
//	/projects
//	/projects/{projectId}/assessments
//	/projects/{projectId}/questionBanks
//	/projects/{projectId}/questionBanks/{questionBankId}
func Parse(path string) (Route, error) {
	clean := strings.Trim(strings.TrimSpace(path), "/")
	parts := strings.Split(clean, "/")
	for i, p := range parts {
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
		parts[i] = unescaped
	}
	if len(parts) == 0 || parts[0] != "projects" {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	switch {
	case len(parts) == 1:
		return Route{Name: RouteProjects, Path: ProjectsPath()}, nil
	case len(parts) == 3 && parts[1] != "" && parts[2] == "assessments":
		return Route{Name: RouteAssessments, Path: AssessmentsPath(parts[1]), ProjectID: parts[1]}, nil
	case len(parts) == 3 && parts[1] != "" && parts[2] == "questionBanks":
		return Route{Name: RouteQuestionBanks, Path: QuestionBanksPath(parts[1]), ProjectID: parts[1]}, nil
	case len(parts) == 4 && parts[1] != "" && parts[2] == "questionBanks" && parts[3] != "":
		return Route{
			Name:           RouteQuestions,
			Path:           QuestionBankPath(parts[1], parts[3]),
			ProjectID:      parts[1],
			QuestionBankID: parts[3],
		}, nil
	}
	return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}
