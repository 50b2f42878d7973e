package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/udisondev/tycoon/internal/engine"
	"github.com/udisondev/tycoon/internal/model"
)

// Response helpers

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondAPIError(w, status, &apiError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, e *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiResponse{Error: e}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondEngineError maps engine and parse errors to HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	var unknown *model.UnknownNameError
	switch {
	case errors.As(err, &unknown):
		respondAPIError(w, http.StatusBadRequest, &apiError{
			Code:       "unknown_name",
			Message:    err.Error(),
			Suggestion: unknown.Suggestion,
		})
	case errors.Is(err, engine.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.Error("engine command failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// State

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Snapshot())
}

type specializationRequest struct {
	Specialization string `json:"specialization"`
}

func (s *Server) handleSetSpecialization(w http.ResponseWriter, r *http.Request) {
	var req specializationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	spec, err := model.ParseSpecialization(req.Specialization)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := s.engine.SetActiveSpecialization(spec); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]model.Specialization{"specialization": spec})
}

// Productions

func (s *Server) handleGetProduction(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Production(chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpgradeProduction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.UpgradeProduction(id); err != nil {
		respondEngineError(w, err)
		return
	}

	st, err := s.engine.Production(id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// Market

type quoteResponse struct {
	Resource model.Resource `json:"resource"`
	Buy      float64        `json:"buy"`
	Sell     float64        `json:"sell"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	res, err := model.ParseResource(chi.URLParam(r, "resource"))
	if err != nil {
		respondEngineError(w, err)
		return
	}

	buy, sell, err := s.engine.Quote(res)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quoteResponse{Resource: res, Buy: buy, Sell: sell})
}

type tradeRequest struct {
	Resource string  `json:"resource"`
	Amount   float64 `json:"amount"`
}

type tradeResponse struct {
	Resources model.Ledger `json:"resources"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.engine.BuyResource)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, s.engine.SellResource)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, trade func(model.Resource, float64) error) {
	var req tradeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := model.ParseResource(req.Resource)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := trade(res, req.Amount); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tradeResponse{Resources: s.engine.Snapshot().Resources})
}

// Skills

func (s *Server) handleGetSkillNode(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.SkillNode(chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleAllocateSkill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.AllocateSkillPoint(id); err != nil {
		respondEngineError(w, err)
		return
	}

	st, err := s.engine.SkillNode(id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

type effectResponse struct {
	Type   model.EffectType `json:"type"`
	Target string           `json:"target,omitempty"`
	Value  float64          `json:"value"`
}

func (s *Server) handleGetEffect(w http.ResponseWriter, r *http.Request) {
	typ, err := model.ParseEffectType(r.URL.Query().Get("type"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	target := r.URL.Query().Get("target")

	respondJSON(w, http.StatusOK, effectResponse{
		Type:   typ,
		Target: target,
		Value:  s.engine.GetNodeEffect(typ, target),
	})
}
