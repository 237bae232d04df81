package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/chirpstack"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ========== Service handlers ==========

// HandleRoot root handler
func (s *RESTServer) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": s.config.Server.Name,
		"version": s.config.Server.Version,
		"health":  "/health",
	})
}

// HandleHealth health check
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// ========== Application handlers ==========

// HandleListApplications lists applications
func (s *RESTServer) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset, err := parsePagination(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	apps, total, err := s.client.ListApplications(ctx, limit, offset)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     apps,
		"totalCount": total,
	})
}

// HandleGetApplication gets an application
func (s *RESTServer) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	app, err := s.client.GetApplication(ctx, id.String())
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

// ========== Device profile handlers ==========

// HandleListDeviceProfiles lists device profiles
func (s *RESTServer) HandleListDeviceProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset, err := parsePagination(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profiles, total, err := s.client.ListDeviceProfiles(ctx, limit, offset)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     profiles,
		"totalCount": total,
	})
}

// HandleGetDeviceProfile gets a device profile
func (s *RESTServer) HandleGetDeviceProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid device profile id")
		return
	}

	profile, err := s.client.GetDeviceProfile(ctx, id.String())
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

// ========== Helper methods ==========

// respondJSON responds with JSON
func (s *RESTServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError responds with an error body
func (s *RESTServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondBackendError maps backend errors to HTTP status codes
func (s *RESTServer) respondBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chirpstack.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chirpstack.ErrUnauthenticated):
		s.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, chirpstack.ErrPermissionDenied):
		s.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, chirpstack.ErrInvalidArgument):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chirpstack.ErrUnavailable):
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("Backend call failed")
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// parsePagination parses limit/offset query parameters. Values are
// forwarded to the backend unchanged; out-of-range values are rejected
// before any RPC is issued.
func parsePagination(r *http.Request) (int, int, error) {
	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
		}
		limit = n
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
		offset = n
	}

	return limit, offset, nil
}

// ========== Helper functions ==========

// parseEUI64 parses an EUI64 path parameter
func parseEUI64(s string) (models.EUI64, error) {
	return models.ParseEUI64(s)
}
