package processing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openscrapers/docketproc/internal/model"
)

func TestRevalidate_FillsMissingUUIDs(t *testing.T) {
	e := newTestEngine(t)
	docket := &model.ProcessedGenericDocket{
		Filings: []model.ProcessedGenericFiling{
			{Attachments: []model.ProcessedGenericAttachment{{}}},
		},
	}

	changed := e.Revalidate(context.Background(), docket)
	require.True(t, changed)
	require.NotEqual(t, uuid.Nil, docket.ObjectUUID)
	require.NotEqual(t, uuid.Nil, docket.Filings[0].ObjectUUID)
	require.NotEqual(t, uuid.Nil, docket.Filings[0].Attachments[0].ObjectUUID)
}

func TestRevalidate_NoOpWhenAlreadyValid(t *testing.T) {
	e := newTestEngine(t)
	docket := &model.ProcessedGenericDocket{
		ObjectUUID:  uuid.New(),
		CaseType:    "Complaint",
		CaseSubtype: "",
		Filings: []model.ProcessedGenericFiling{
			{ObjectUUID: uuid.New(), Name: "already-named"},
		},
	}

	changed := e.Revalidate(context.Background(), docket)
	require.False(t, changed)
}

func TestRevalidate_SplitsCaseSubtypeWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	docket := &model.ProcessedGenericDocket{
		ObjectUUID: uuid.New(),
		CaseType:   "Rulemaking - Electric",
	}

	changed := e.Revalidate(context.Background(), docket)
	require.True(t, changed)
	require.Equal(t, "Rulemaking", docket.CaseType)
	require.Equal(t, "Electric", docket.CaseSubtype)
}

func TestRevalidate_PropagatesAttachmentNameToEmptyFilingName(t *testing.T) {
	e := newTestEngine(t)
	docket := &model.ProcessedGenericDocket{
		ObjectUUID: uuid.New(),
		Filings: []model.ProcessedGenericFiling{
			{
				ObjectUUID: uuid.New(),
				Name:       "",
				Attachments: []model.ProcessedGenericAttachment{
					{ObjectUUID: uuid.New(), Name: "exhibit-b"},
				},
			},
		},
	}

	changed := e.Revalidate(context.Background(), docket)
	require.True(t, changed)
	require.Equal(t, "exhibit-b", docket.Filings[0].Name)
}

func TestRevalidate_SkipsHashLookupWhenIndexNil(t *testing.T) {
	e := newTestEngine(t)
	docket := &model.ProcessedGenericDocket{
		ObjectUUID: uuid.New(),
		Filings: []model.ProcessedGenericFiling{
			{
				ObjectUUID: uuid.New(),
				Name:       "already-named",
				Attachments: []model.ProcessedGenericAttachment{
					{ObjectUUID: uuid.New(), URL: "https://example.gov/doc.pdf", Hash: nil},
				},
			},
		},
	}

	changed := e.Revalidate(context.Background(), docket)
	require.False(t, changed)
	require.Nil(t, docket.Filings[0].Attachments[0].Hash)
}
