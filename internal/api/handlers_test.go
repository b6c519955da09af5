package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/openscrapers/docketproc/internal/model"
	"github.com/openscrapers/docketproc/internal/orchestrator"
)

func TestJurisdictionFromRoute_DefaultsCountryToUS(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("state", "ny")
	rctx.URLParams.Add("jurisdiction", "psc")

	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	j := jurisdictionFromRoute(r)
	require.Equal(t, "us", j.Country)
	require.Equal(t, "ny", j.State)
	require.Equal(t, "psc", j.Jurisdiction)
}

func TestResultEnvelope_OmitsProcessedDocketsWhenEmpty(t *testing.T) {
	e := resultEnvelope(orchestrator.Result{SuccessCount: 2, ErrorCount: 1})
	_, ok := e["processed_dockets"]
	require.False(t, ok)
	require.Equal(t, 2, e["success_count"])
	require.Equal(t, 1, e["error_count"])
}

func TestResultEnvelope_IncludesProcessedDocketsWhenPresent(t *testing.T) {
	e := resultEnvelope(orchestrator.Result{
		SuccessCount:     1,
		ProcessedDockets: []model.ProcessedGenericDocket{{CaseGovid: "C-1"}},
	})
	docks, ok := e["processed_dockets"]
	require.True(t, ok)
	require.Len(t, docks, 1)
}
