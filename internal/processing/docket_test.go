package processing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/llm"
	"github.com/openscrapers/docketproc/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(nil, llm.HeuristicAdapter{}, nil, Config{}, zap.NewNop())
}

func TestProcessDocket_MintsUUIDWhenNoCache(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{Jurisdiction: "us_ny_psc"}, model.RawGenericDocket{CaseGovid: "C-1"}, nil)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, docket.ObjectUUID)
}

func TestProcessDocket_PreservesCachedUUID(t *testing.T) {
	e := newTestEngine(t)
	cachedID := uuid.New()
	cached := &model.ProcessedGenericDocket{ObjectUUID: cachedID}
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{CaseGovid: "C-1"}, cached)
	require.NoError(t, err)
	require.Equal(t, cachedID, docket.ObjectUUID)
}

func TestProcessDocket_OpenedDateDefaultsToDateMaxWithNoDates(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{CaseGovid: "C-1"}, nil)
	require.NoError(t, err)
	require.Equal(t, model.DateMax, docket.OpenedDate)
}

func TestProcessDocket_OpenedDateIsMinOfRawAndFilingDates(t *testing.T) {
	e := newTestEngine(t)
	rawOpened := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	earlierFiling := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	laterFiling := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{
		CaseGovid:  "C-1",
		OpenedDate: &rawOpened,
		Filings: []model.RawGenericFiling{
			{FillingGovid: "f1", FiledDate: &laterFiling},
			{FillingGovid: "f2", FiledDate: &earlierFiling},
		},
	}, nil)
	require.NoError(t, err)
	require.True(t, docket.OpenedDate.Equal(earlierFiling))
}

func TestProcessDocket_FilingsSortedByIndexInDocket(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{
		CaseGovid: "C-1",
		Filings: []model.RawGenericFiling{
			{FillingGovid: "f1"},
			{FillingGovid: "f2"},
			{FillingGovid: "f3"},
		},
	}, nil)
	require.NoError(t, err)
	require.Len(t, docket.Filings, 3)

	seen := make([]int, len(docket.Filings))
	for i, f := range docket.Filings {
		seen[i] = f.IndexInDocket
	}
	require.ElementsMatch(t, []int{0, 1, 2}, seen)
}

func TestProcessDocket_CaseTypeSplitOnDash(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{
		CaseGovid: "C-1",
		CaseType:  "Rulemaking - Electric",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Rulemaking", docket.CaseType)
	require.Equal(t, "Electric", docket.CaseSubtype)
}

func TestProcessDocket_CaseTypeUnchangedWithoutDash(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{
		CaseGovid: "C-1",
		CaseType:  "Complaint",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Complaint", docket.CaseType)
	require.Empty(t, docket.CaseSubtype)
}

func TestProcessDocket_FilingNameFallsBackToAttachmentName(t *testing.T) {
	e := newTestEngine(t)
	docket, err := e.ProcessDocket(context.Background(), Context{}, model.RawGenericDocket{
		CaseGovid: "C-1",
		Filings: []model.RawGenericFiling{
			{
				FillingGovid: "f1",
				Name:         "",
				Attachments: []model.RawGenericAttachment{
					{Name: "first-exhibit"},
				},
			},
		},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "first-exhibit", docket.Filings[0].Name)
}

func TestProcessDocket_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	raw := model.RawGenericDocket{
		CaseGovid: "C-1",
		CaseType:  "Rulemaking - Electric",
		Filings: []model.RawGenericFiling{
			{FillingGovid: "f1", Attachments: []model.RawGenericAttachment{{AttachmentGovid: "a1", Name: "exhibit"}}},
		},
	}

	first, err := e.ProcessDocket(context.Background(), Context{}, raw, nil)
	require.NoError(t, err)

	second, err := e.ProcessDocket(context.Background(), Context{}, raw, &first)
	require.NoError(t, err)

	require.Equal(t, first.ObjectUUID, second.ObjectUUID)
	require.Equal(t, first.Filings[0].ObjectUUID, second.Filings[0].ObjectUUID)
	require.Equal(t, first.Filings[0].Attachments[0].ObjectUUID, second.Filings[0].Attachments[0].ObjectUUID)
}

func TestSplitPersonName(t *testing.T) {
	first, last := splitPersonName("Jane Q Doe")
	require.Equal(t, "Jane Q", first)
	require.Equal(t, "Doe", last)

	first, last = splitPersonName("Cher")
	require.Equal(t, "Cher", first)
	require.Empty(t, last)
}

func TestProcessParty_NonHumanBecomesHumanPlaceholder(t *testing.T) {
	party := processParty(model.RawParty{Kind: model.PartyKindOrganization, Name: "Acme Corp"})
	require.Equal(t, model.PartyKindHuman, party.Kind)
	require.Equal(t, "Acme Corp", party.Human.Name)
}
