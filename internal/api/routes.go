package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up the REST routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Service info and health check (public)
	r.Get("/", s.HandleRoot)
	r.Get("/health", s.HandleHealth)

	// Resource routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		// Applications
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", s.HandleListApplications)
			r.Get("/{id}", s.HandleGetApplication)
		})

		// Devices
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.HandleListDevices)
			r.Route("/{dev_eui}", func(r chi.Router) {
				r.Get("/", s.HandleGetDevice)

				// Downlink queue management
				r.Route("/queue", func(r chi.Router) {
					r.Post("/", s.HandleEnqueueDownlink)
					r.Get("/", s.HandleListDownlinkQueue)
					r.Delete("/", s.HandleFlushDownlinkQueue)
				})
			})
		})

		// Gateways
		r.Route("/gateways", func(r chi.Router) {
			r.Get("/", s.HandleListGateways)
			r.Get("/{gateway_id}", s.HandleGetGateway)
		})

		// Device profiles
		r.Route("/device-profiles", func(r chi.Router) {
			r.Get("/", s.HandleListDeviceProfiles)
			r.Get("/{id}", s.HandleGetDeviceProfile)
		})
	})
}
