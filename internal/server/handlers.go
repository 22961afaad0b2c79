package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/llm"
	"github.com/ziadkadry99/agentic/internal/session"
	"github.com/ziadkadry99/agentic/internal/store"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "agentic",
		"endpoints": []string{
			"GET /health", "POST /chat", "POST /query", "POST /ingest", "GET /stats",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id"`
	Repository string `json:"repository"`
}

type chatResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %v: %w", err, apperr.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, fmt.Errorf("message is required: %w", apperr.ErrValidation))
		return
	}

	ctx := r.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = session.NewID()
	}
	history, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	reply, err := s.agent.Answer(ctx, req.Message, history, req.Repository)
	if err != nil {
		writeError(w, err)
		return
	}

	history = append(history,
		llm.Message{Role: llm.RoleUser, Content: req.Message},
		llm.Message{Role: llm.RoleAssistant, Content: reply.Answer},
	)
	if err := s.sessions.Set(ctx, sessionID, history); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:    reply.Answer,
		Sources:   reply.Sources,
		SessionID: sessionID,
	})
}

type queryRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	Repository string `json:"repository"`
}

type queryResponse struct {
	Results []store.Result `json:"results"`
	Count   int            `json:"count"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %v: %w", err, apperr.ErrValidation))
		return
	}

	results, err := s.querier.Retrieve(r.Context(), req.Query, req.TopK, req.Repository)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []store.Result{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Results: results, Count: len(results)})
}

type ingestRequest struct {
	Path       string `json:"path"`
	Repository string `json:"repository"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingestFn == nil {
		writeError(w, fmt.Errorf("ingestion is not enabled on this server: %w", apperr.ErrConfiguration))
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %v: %w", err, apperr.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, fmt.Errorf("path is required: %w", apperr.ErrValidation))
		return
	}

	result, err := s.ingestFn(r.Context(), req.Path, req.Repository)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
