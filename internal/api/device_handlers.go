package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandleListDevices lists devices of an application
func (s *RESTServer) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	applicationID := r.URL.Query().Get("application_id")
	if applicationID == "" {
		s.respondError(w, http.StatusBadRequest, "application_id is required")
		return
	}

	appID, err := uuid.Parse(applicationID)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid application_id")
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	devices, total, err := s.client.ListDevices(ctx, appID.String(), limit, offset)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     devices,
		"totalCount": total,
	})
}

// HandleGetDevice gets a device by DevEUI
func (s *RESTServer) HandleGetDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devEUI, err := parseEUI64(chi.URLParam(r, "dev_eui"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid dev_eui")
		return
	}

	device, err := s.client.GetDevice(ctx, devEUI)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, device)
}
