package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/logging"
	"github.com/jonathan/days-to-hire/internal/server/middleware"
	"github.com/jonathan/days-to-hire/internal/types"
)

const healthTimeout = 5 * time.Second

// handleGetDaysToHire returns the stored statistics of a job, globally or in one country
func (s *Server) handleGetDaysToHire(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := types.DaysToHireQuery{StandardJobID: params.Get("standard_job_id")}
	if params.Has("country_code") {
		code := params.Get("country_code")
		query.CountryCode = &code
	}

	if err := query.Validate(); err != nil {
		s.writeError(w, r, query, newValidationError(err))
		return
	}

	rec, err := s.store.GetStats(r.Context(), query.StandardJobID, query.CountryCode)
	if err != nil {
		s.writeError(w, r, query, err)
		return
	}
	if rec == nil {
		s.writeError(w, r, query, &ErrStatsNotFound{StandardJobID: query.StandardJobID, CountryCode: query.CountryCode})
		return
	}

	s.jsonResponse(w, http.StatusOK, types.NewDaysToHireResponse(rec))
}

// handleHealth reports whether the statistics store answers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, types.HealthResponse{Status: types.StatusUnavailable})
		return
	}
	s.jsonResponse(w, http.StatusOK, types.HealthResponse{Status: types.StatusHealthy})
}

// writeError maps err to a status code and writes the JSON error body.
// Store failures are logged; their details stay out of the response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, query types.DaysToHireQuery, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		s.errorResponse(w, status, err.Error())
		return
	case http.StatusServiceUnavailable:
		s.errorResponse(w, status, "database unavailable")
	default:
		s.errorResponse(w, status, "internal server error")
	}

	s.logger.Error("failed to get days to hire statistics",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("standard_job_id", query.StandardJobID),
		logging.Country(query.CountryCode),
		zap.Int("status", status),
		zap.Error(err))
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
