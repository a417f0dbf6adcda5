package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))
	if keyword == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	jobs, err := s.svc.SearchJobs(r.Context(), keyword, s.limit(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"keyword":   keyword,
		"count":     len(jobs),
		"jobs":      jobs,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")
	if categoryID == "" {
		s.writeError(w, http.StatusBadRequest, "category id is required")
		return
	}

	jobs, err := s.svc.CategoryJobs(r.Context(), categoryID, s.limit(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"category":  categoryID,
		"count":     len(jobs),
		"jobs":      jobs,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type batchRequest struct {
	Keywords []string `json:"keywords"`
	Limit    int      `json:"limit"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		s.writeError(w, http.StatusBadRequest, "keywords must contain at least one entry")
		return
	}
	if len(keywords) > s.maxBatch {
		keywords = keywords[:s.maxBatch]
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	items, err := s.svc.BatchSearch(r.Context(), keywords, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"keywords":  keywords,
		"results":   items,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	var req core.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Job.Title) == "" && strings.TrimSpace(req.Job.Description) == "" {
		s.writeError(w, http.StatusBadRequest, "job must carry a title or description")
		return
	}

	result, err := s.svc.GenerateProposal(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	envelope := map[string]any{
		"success":      true,
		"proposal":     result.ProposalText,
		"analysis":     result.Analysis,
		"source":       result.Source,
		"processingId": result.ProcessingID,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	if result.Warning != "" {
		envelope["warning"] = result.Warning
	}
	s.writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	s.svc.ResetCache()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "cache cleared",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) limit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return s.defaultLimit
	}
	return limit
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]any{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps core failures onto status codes. Every failure
// still produces a well-formed envelope.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var upstream *core.UpstreamError
	var runFailed *core.RunFailedError

	switch {
	case errors.Is(err, core.ErrMissingCredential):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrPollTimeout):
		s.writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &upstream), errors.As(err, &runFailed):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("unexpected service failure", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
