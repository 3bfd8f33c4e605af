package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/docdesk/docdesk/pkg/domain"
	"github.com/docdesk/docdesk/pkg/prompt"
)

var (
	errMissingCredential = errors.New("server missing GEMINI_API_KEY")
	errMissingQuestion   = errors.New("missing question")
)

type askRequest struct {
	Documents []domain.DocumentRef `json:"documents"`
	Question  string               `json:"question"`
	History   []domain.Turn        `json:"history"`
	DeptType  string               `json:"deptType"`
}

type askResponse struct {
	Text string `json:"text"`
}

type suggestRequest struct {
	Documents []domain.DocumentRef `json:"documents"`
	DeptType  string               `json:"deptType"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	}
	if s.provider == nil {
		s.errorResponse(w, http.StatusInternalServerError, errMissingCredential)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.errorResponse(w, http.StatusBadRequest, errMissingQuestion)
		return
	}

	dept := domain.ParseDepartment(req.DeptType)
	instructions := prompt.SystemInstruction(dept, req.Documents, s.cfg.MaxContextChars)
	turns := append(prompt.FilterHistory(req.History), domain.Turn{
		Role: domain.RoleUser,
		Text: req.Question,
	})

	text, err := s.provider.Generate(r.Context(), s.cfg.ModelName, instructions, turns)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, askResponse{Text: text})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	}
	if s.provider == nil {
		s.errorResponse(w, http.StatusInternalServerError, errMissingCredential)
		return
	}

	dept := domain.ParseDepartment(req.DeptType)
	instructions := prompt.SuggestionInstruction(dept, req.Documents, s.cfg.MaxContextChars)
	turns := []domain.Turn{{
		Role: domain.RoleUser,
		Text: "List the follow-up questions.",
	}}

	text, err := s.provider.Generate(r.Context(), s.cfg.ModelName, instructions, turns)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, suggestResponse{Suggestions: prompt.ParseSuggestions(text)})
}
