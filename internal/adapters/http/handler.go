package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskrelay/taskrelay/internal/app/chat"
	"github.com/taskrelay/taskrelay/internal/domain"
)

type Server struct {
	svc *chat.Service

	// agent identity shown in the UI sidebar
	agentID      string
	agentAliasID string
}

func NewServer(svc *chat.Service, agentID, agentAliasID string) http.Handler {
	s := &Server{
		svc:          svc,
		agentID:      agentID,
		agentAliasID: agentAliasID,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(withRequestLogging)
	r.Use(withCORS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/auth", s.handleAuthenticate)
			r.Post("/messages", s.handleSendMessage)
			r.Post("/connection-check", s.handleConnectionCheck)
		})
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sessionResponse struct {
	ID            string    `json:"id"`
	AgentID       string    `json:"agent_id"`
	AgentAliasID  string    `json:"agent_alias_id"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type turnResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type authRequest struct {
	Secret string `json:"secret"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserTurn       turnResponse  `json:"user_turn"`
	AssistantTurn  *turnResponse `json:"assistant_turn,omitempty"`
	DecodeFailures int           `json:"decode_failures,omitempty"`
}

type getSessionResponse struct {
	Session sessionResponse `json:"session"`
	Turns   []turnResponse  `json:"turns"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "taskrelay",
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.StartSession(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.toSessionResponse(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "sessionID"))

	session, turns, err := s.svc.GetTranscript(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session: s.toSessionResponse(session),
		Turns:   toTurnsResponse(turns),
	})
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "sessionID"))

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.svc.Authenticate(r.Context(), id, req.Secret); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "sessionID"))

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), chat.SendMessageInput{
		SessionID: id,
		Text:      req.Text,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := sendMessageResponse{
		UserTurn:       toTurnResponse(out.UserTurn),
		DecodeFailures: out.DecodeFailures,
	}
	if out.AssistantTurn != nil {
		turn := toTurnResponse(out.AssistantTurn)
		resp.AssistantTurn = &turn
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConnectionCheck(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "sessionID"))

	if err := s.svc.CheckConnection(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func (s *Server) toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		ID:            string(sess.ID),
		AgentID:       s.agentID,
		AgentAliasID:  s.agentAliasID,
		Authenticated: sess.Authenticated,
		CreatedAt:     sess.CreatedAt,
		UpdatedAt:     sess.UpdatedAt,
	}
}

func toTurnResponse(t *domain.Turn) turnResponse {
	return turnResponse{
		ID:        string(t.ID),
		SessionID: string(t.SessionID),
		Role:      string(t.Role),
		Text:      t.Text,
		CreatedAt: t.CreatedAt,
	}
}

func toTurnsResponse(turns []*domain.Turn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}
	return out
}

// ─────────────────────────────────────────────
// Error boundary
// ─────────────────────────────────────────────

// writeError is the single reporting boundary: every error kind from the
// taxonomy maps to exactly one status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	case errors.Is(err, domain.ErrInvalidSecret):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect secret key"})
		return
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "authentication required"})
		return
	}

	var remoteErr *domain.RemoteServiceError
	if errors.As(err, &remoteErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: remoteErr.Message,
			Code:  remoteErr.Code,
		})
		return
	}

	var unclassified *domain.UnclassifiedError
	if errors.As(err, &unclassified) {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: unclassified.Err.Error(),
			Code:  "Unclassified",
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
