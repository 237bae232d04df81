package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

// enqueueRequest is the downlink submission body. Data is base64 in JSON.
type enqueueRequest struct {
	QueueItem struct {
		Confirmed bool   `json:"confirmed"`
		Data      []byte `json:"data" validate:"required"`
		FPort     uint8  `json:"fPort" validate:"required,min=1,max=223"`
	} `json:"queueItem"`
}

// HandleEnqueueDownlink enqueues a downlink message to a device
func (s *RESTServer) HandleEnqueueDownlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devEUI, err := parseEUI64(chi.URLParam(r, "dev_eui"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid dev_eui")
		return
	}

	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req.QueueItem); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.QueueItem.Data) > models.MaxDownlinkPayload {
		s.respondError(w, http.StatusBadRequest, "payload too large (max 242 bytes)")
		return
	}

	id, err := s.client.EnqueueDownlink(ctx, devEUI, &models.DownlinkQueueItem{
		DevEUI:    devEUI,
		Confirmed: req.QueueItem.Confirmed,
		FPort:     req.QueueItem.FPort,
		Data:      req.QueueItem.Data,
	})
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"id": id,
	})
}

// HandleListDownlinkQueue returns the pending downlink queue of a device
func (s *RESTServer) HandleListDownlinkQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devEUI, err := parseEUI64(chi.URLParam(r, "dev_eui"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid dev_eui")
		return
	}

	items, err := s.client.ListDownlinkQueue(ctx, devEUI)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     items,
		"totalCount": len(items),
	})
}

// HandleFlushDownlinkQueue clears the downlink queue of a device
func (s *RESTServer) HandleFlushDownlinkQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	devEUI, err := parseEUI64(chi.URLParam(r, "dev_eui"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid dev_eui")
		return
	}

	if err := s.client.FlushDownlinkQueue(ctx, devEUI); err != nil {
		s.respondBackendError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
