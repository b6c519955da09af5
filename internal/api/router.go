package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the chi router for every control-plane route in spec.md
// §6. There is no authentication layer here — unlike the teacher's
// JWT-gated /api/v1 surface, this is an internal admin API reached only
// from inside the operator's network.
func NewRouter(h *Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/cases", func(r chi.Router) {
		r.Post("/reprocess_dockets_for_all", h.ReprocessAll)
		r.Post("/{state}/{jurisdiction}/manual_process_raw_dockets", h.ManualProcessRawDockets)
		r.Delete("/{state}/{jurisdiction}/purge_all", h.PurgeAll)
	})

	r.Route("/docket-process/{state}/{jurisdiction}", func(r chi.Router) {
		r.Post("/raw-dockets", h.RunRawDockets)
		r.Post("/by-ids", h.RunByIDs)
		r.Post("/by-jurisdiction", h.RunByJurisdiction)
		r.Post("/by-daterange", h.RunByDateRange)
	})

	r.Route("/attachment_index", func(r chi.Router) {
		r.Get("/lookup/*", h.AttachmentLookup)
		r.Post("/regenerate", h.AttachmentRegenerate)
	})

	return r
}
