package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandleListGateways lists gateways
func (s *RESTServer) HandleListGateways(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset, err := parsePagination(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	gateways, total, err := s.client.ListGateways(ctx, limit, offset)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     gateways,
		"totalCount": total,
	})
}

// HandleGetGateway gets a gateway by ID
func (s *RESTServer) HandleGetGateway(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gatewayID, err := parseEUI64(chi.URLParam(r, "gateway_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid gateway_id")
		return
	}

	gateway, err := s.client.GetGateway(ctx, gatewayID)
	if err != nil {
		s.respondBackendError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, gateway)
}
