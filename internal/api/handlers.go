package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"qbank/internal/model"
)

const invalidPayload = "invalid request payload"

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type createProjectRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

type createQuestionBankRequest struct {
	Title     string `json:"title"`
	ProjectID string `json:"projectId"`
}

type createQuestionRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	QuestionBankID string `json:"questionBankId"`
}

type renameRequest struct {
	Title string `json:"title"`
}


func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.API.ListProjects(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse[model.Project]{Data: list})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	p, err := s.cfg.API.CreateProject(r.Context(), model.Draft{Title: req.Title, ScopeID: req.UserID})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.cfg.API.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	p, err := s.cfg.API.RenameProject(r.Context(), mux.Vars(r)["id"], req.Title)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.API.DeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListQuestionBanks(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.API.ListQuestionBanks(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse[model.QuestionBank]{Data: list})
}

func (s *Server) handleCreateQuestionBank(w http.ResponseWriter, r *http.Request) {
	var req createQuestionBankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	b, err := s.cfg.API.CreateQuestionBank(r.Context(), model.Draft{Title: req.Title, ScopeID: req.ProjectID})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetQuestionBank(w http.ResponseWriter, r *http.Request) {
	b, err := s.cfg.API.GetQuestionBank(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleRenameQuestionBank(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	b, err := s.cfg.API.RenameQuestionBank(r.Context(), mux.Vars(r)["id"], req.Title)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteQuestionBank(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.API.DeleteQuestionBank(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.API.ListQuestions(r.Context(), mux.Vars(r)["questionBankId"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse[model.Question]{Data: list})
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	q, err := s.cfg.API.CreateQuestion(r.Context(), model.Draft{
		Title:       req.Title,
		ScopeID:     req.QuestionBankID,
		Description: req.Description,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.cfg.API.GetQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req model.QuestionPatch
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, invalidPayload)
		return
	}
	if req.Title == nil && req.Description == nil {
		respondError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	q, err := s.cfg.API.UpdateQuestion(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.API.DeleteQuestion(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
