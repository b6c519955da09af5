package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/attachmentindex"
	"github.com/openscrapers/docketproc/internal/ingest"
	"github.com/openscrapers/docketproc/internal/jurisdiction"
	"github.com/openscrapers/docketproc/internal/model"
	"github.com/openscrapers/docketproc/internal/orchestrator"
)

// defaultCountry is assumed for every HTTP route, since spec.md's route
// table only carries {state}/{jurisdiction} — the service targets a single
// country deployment per instance.
const defaultCountry = "us"

// Handlers bundles the dependencies the control-plane routes need.
type Handlers struct {
	orch      *orchestrator.Orchestrator
	index     *attachmentindex.Index
	ingester  *ingest.Ingester
	dateRange orchestrator.DateRangeLookup
	logger    *zap.Logger
}

// NewHandlers builds a Handlers. dateRangeLookup may be nil if by-daterange
// is not wired to a relational lookup in this deployment.
func NewHandlers(orch *orchestrator.Orchestrator, index *attachmentindex.Index, ingester *ingest.Ingester, dateRangeLookup orchestrator.DateRangeLookup, logger *zap.Logger) *Handlers {
	return &Handlers{orch: orch, index: index, ingester: ingester, dateRange: dateRangeLookup, logger: logger.Named("api")}
}

func jurisdictionFromRoute(r *http.Request) jurisdiction.FixedJurisdiction {
	return jurisdiction.FixedJurisdiction{
		Country:      defaultCountry,
		State:        chi.URLParam(r, "state"),
		Jurisdiction: chi.URLParam(r, "jurisdiction"),
	}
}

func resultEnvelope(result orchestrator.Result) envelope {
	e := envelope{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	}
	if len(result.ProcessedDockets) > 0 {
		e["processed_dockets"] = result.ProcessedDockets
	}
	return e
}

// ManualProcessRawDockets handles
// POST /cases/{state}/{jurisdiction}/manual_process_raw_dockets.
func (h *Handlers) ManualProcessRawDockets(w http.ResponseWriter, r *http.Request) {
	var dockets []model.RawGenericDocket
	if !decodeJSON(w, r, &dockets) {
		return
	}

	j := jurisdictionFromRoute(r)
	result := h.orch.RunRawDockets(r.Context(), j, orchestrator.ActionProcessAndIngest, dockets)
	JSON(w, http.StatusOK, resultEnvelope(result))
}

// rawDocketsRequest is the body for POST .../docket-process/.../raw-dockets.
type rawDocketsRequest struct {
	Action  orchestrator.ProcessingAction `json:"action"`
	Dockets []model.RawGenericDocket      `json:"dockets"`
}

// RunRawDockets handles POST /docket-process/{state}/{jurisdiction}/raw-dockets.
func (h *Handlers) RunRawDockets(w http.ResponseWriter, r *http.Request) {
	var req rawDocketsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	j := jurisdictionFromRoute(r)
	result := h.orch.RunRawDockets(r.Context(), j, req.Action, req.Dockets)
	JSON(w, http.StatusOK, resultEnvelope(result))
}

// byIDsRequest is the body for POST .../docket-process/.../by-ids.
type byIDsRequest struct {
	Action    orchestrator.ProcessingAction `json:"action"`
	DocketIDs []string                      `json:"docket_ids"`
}

// RunByIDs handles POST /docket-process/{state}/{jurisdiction}/by-ids.
func (h *Handlers) RunByIDs(w http.ResponseWriter, r *http.Request) {
	var req byIDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	j := jurisdictionFromRoute(r)
	result := h.orch.RunByIds(r.Context(), j, req.Action, req.DocketIDs)
	JSON(w, http.StatusOK, resultEnvelope(result))
}

// byJurisdictionRequest is the body for POST .../docket-process/.../by-jurisdiction.
type byJurisdictionRequest struct {
	Action orchestrator.ProcessingAction `json:"action"`
}

// RunByJurisdiction handles POST /docket-process/{state}/{jurisdiction}/by-jurisdiction.
func (h *Handlers) RunByJurisdiction(w http.ResponseWriter, r *http.Request) {
	var req byJurisdictionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	j := jurisdictionFromRoute(r)
	result, err := h.orch.RunByJurisdiction(r.Context(), j, req.Action)
	if err != nil {
		h.logger.Error("run by jurisdiction failed", zap.Error(err))
		ErrInternal(w)
		return
	}
	JSON(w, http.StatusOK, resultEnvelope(result))
}

// byDateRangeRequest is the body for POST .../docket-process/.../by-daterange.
type byDateRangeRequest struct {
	Action    orchestrator.ProcessingAction `json:"action"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
}

// RunByDateRange handles POST /docket-process/{state}/{jurisdiction}/by-daterange.
func (h *Handlers) RunByDateRange(w http.ResponseWriter, r *http.Request) {
	var req byDateRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if h.dateRange == nil {
		ErrUnprocessable(w, "by-daterange is not available: no relational date-range lookup is configured")
		return
	}

	j := jurisdictionFromRoute(r)
	result, err := h.orch.RunByDateRange(r.Context(), j, req.Action, req.StartDate, req.EndDate, h.dateRange)
	if err != nil {
		h.logger.Error("run by date range failed", zap.Error(err))
		ErrInternal(w)
		return
	}
	JSON(w, http.StatusOK, resultEnvelope(result))
}

// reprocessAllRequest is the body for POST /cases/reprocess_dockets_for_all.
type reprocessAllRequest struct {
	Jurisdictions []jurisdiction.FixedJurisdiction `json:"jurisdictions"`
}

// ReprocessAll handles POST /cases/reprocess_dockets_for_all: it fans out a
// ByJurisdiction+ProcessAndIngest run across every named jurisdiction,
// returning per-jurisdiction results rather than a single combined count
// since each jurisdiction is an independent relational schema.
func (h *Handlers) ReprocessAll(w http.ResponseWriter, r *http.Request) {
	var req reprocessAllRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	type perJurisdiction struct {
		Jurisdiction jurisdiction.FixedJurisdiction `json:"jurisdiction"`
		SuccessCount int                            `json:"success_count"`
		ErrorCount   int                            `json:"error_count"`
	}

	results := make([]perJurisdiction, 0, len(req.Jurisdictions))
	totalSuccess, totalError := 0, 0
	for _, j := range req.Jurisdictions {
		result, err := h.orch.RunByJurisdiction(r.Context(), j, orchestrator.ActionProcessAndIngest)
		if err != nil {
			h.logger.Error("reprocess_dockets_for_all: jurisdiction failed", zap.Stringer("jurisdiction", j), zap.Error(err))
			totalError++
			continue
		}
		results = append(results, perJurisdiction{Jurisdiction: j, SuccessCount: result.SuccessCount, ErrorCount: result.ErrorCount})
		totalSuccess += result.SuccessCount
		totalError += result.ErrorCount
	}

	JSON(w, http.StatusOK, envelope{
		"success_count": totalSuccess,
		"error_count":   totalError,
		"jurisdictions": results,
	})
}

// PurgeAll handles DELETE /cases/{state}/{jurisdiction}/purge_all. It
// removes both the blob-store prefixes (raw and processed dockets) and the
// relational schema's table contents (spec.md §4.4.3, §6 scenario 5) — the
// two stores are separate systems of record and both must be cleared for
// the jurisdiction to read as empty again.
func (h *Handlers) PurgeAll(w http.ResponseWriter, r *http.Request) {
	j := jurisdictionFromRoute(r)
	schema := j.SchemaName()

	if err := h.orch.PurgeBlobs(r.Context(), j); err != nil {
		h.logger.Error("purge_all: blob store purge failed", zap.Stringer("jurisdiction", j), zap.Error(err))
		ErrInternal(w)
		return
	}

	if h.ingester != nil {
		if err := h.ingester.PurgeAll(r.Context(), schema); err != nil {
			h.logger.Error("purge_all: relational purge failed", zap.Stringer("jurisdiction", j), zap.Error(err))
			ErrInternal(w)
			return
		}
	}

	NoContent(w)
}

// AttachmentLookup handles GET /attachment_index/lookup/{url}. The lookup
// target is matched as a trailing wildcard since attachment URLs routinely
// contain their own "/" characters; ?url= is also accepted for callers
// that prefer a query parameter over a path suffix.
func (h *Handlers) AttachmentLookup(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	if q := r.URL.Query().Get("url"); q != "" {
		raw = q
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}

	att, ok := h.index.Lookup(r.Context(), decoded)
	if !ok {
		ErrNotFound(w)
		return
	}
	Ok(w, att)
}

// AttachmentRegenerate handles POST /attachment_index/regenerate.
func (h *Handlers) AttachmentRegenerate(w http.ResponseWriter, r *http.Request) {
	if err := h.index.Regenerate(r.Context()); err != nil {
		h.logger.Error("attachment index regenerate failed", zap.Error(err))
		ErrInternal(w)
		return
	}
	Ok(w, envelope{"regenerated": true})
}
