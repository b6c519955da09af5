package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openscrapers/docketproc/internal/model"
)

func newFullTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB := newTestDB(t)
	require.NoError(t, gormDB.AutoMigrate(
		&Docket{}, &Filing{}, &Attachment{},
		&DocketPetitionedByOrg{}, &IndividualOfficialPartyToDocket{},
		&FilingOnBehalfOfOrgRelation{}, &FilingFiledByIndividual{},
	))
	return gormDB
}

func sampleDocket() model.ProcessedGenericDocket {
	opened := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.ProcessedGenericDocket{
		ObjectUUID: uuid.New(),
		CaseGovid:  "C-1",
		CaseName:   "In re Acme Rates",
		OpenedDate: opened,
		PetitionerList: []model.OrgName{
			{Name: "Acme Corp"},
		},
		CaseParties: []model.ProcessedParty{
			{Kind: model.PartyKindHuman, Human: &model.ProcessedGenericHuman{Name: "Jane Doe", WesternFirstName: "Jane", WesternLastName: "Doe"}},
		},
		Filings: []model.ProcessedGenericFiling{
			{
				ObjectUUID:   uuid.New(),
				FillingGovid: "f1",
				Name:         "Initial Filing",
				OrganizationAuthors: []model.OrgName{
					{Name: "Acme Corp"},
				},
				Attachments: []model.ProcessedGenericAttachment{
					{ObjectUUID: uuid.New(), Name: "exhibit-a", AttachmentGovid: "a1"},
				},
			},
		},
	}
}

func TestIngestDocket_CreatesFullSubtree(t *testing.T) {
	gormDB := newFullTestDB(t)
	ingester := New(gormDB, zap.NewNop())
	docket := sampleDocket()

	require.NoError(t, ingester.IngestDocket(context.Background(), "us_ny_psc", docket, false, 0))

	var row Docket
	require.NoError(t, gormDB.First(&row, "docket_govid = ?", "C-1").Error)
	require.Equal(t, docket.ObjectUUID, row.UUID)

	var filingRow Filing
	require.NoError(t, gormDB.First(&filingRow, "docket_uuid = ?", docket.ObjectUUID).Error)

	var attachmentRow Attachment
	require.NoError(t, gormDB.First(&attachmentRow, "parent_filling_uuid = ?", filingRow.UUID).Error)
	require.Equal(t, "exhibit-a", attachmentRow.AttachmentFileName)

	var orgCount int64
	require.NoError(t, gormDB.Model(&Organization{}).Where("name = ?", "Acme Corp").Count(&orgCount).Error)
	require.Equal(t, int64(1), orgCount)

	var humanCount int64
	require.NoError(t, gormDB.Model(&Human{}).Where("western_first_name = ? AND western_last_name = ?", "Jane", "Doe").Count(&humanCount).Error)
	require.Equal(t, int64(1), humanCount)
}

func TestIngestDocket_ReingestIsIdempotent(t *testing.T) {
	gormDB := newFullTestDB(t)
	ingester := New(gormDB, zap.NewNop())
	docket := sampleDocket()

	require.NoError(t, ingester.IngestDocket(context.Background(), "us_ny_psc", docket, false, 0))
	require.NoError(t, ingester.IngestDocket(context.Background(), "us_ny_psc", docket, false, 0))

	var docketCount int64
	require.NoError(t, gormDB.Model(&Docket{}).Where("docket_govid = ?", "C-1").Count(&docketCount).Error)
	require.Equal(t, int64(1), docketCount)

	var orgCount int64
	require.NoError(t, gormDB.Model(&Organization{}).Where("name = ?", "Acme Corp").Count(&orgCount).Error)
	require.Equal(t, int64(1), orgCount)
}

func TestIngestDocket_IgnoreExistingSkipsWhenAlreadyPresent(t *testing.T) {
	gormDB := newFullTestDB(t)
	ingester := New(gormDB, zap.NewNop())
	docket := sampleDocket()

	require.NoError(t, ingester.IngestDocket(context.Background(), "us_ny_psc", docket, false, 0))

	mutated := docket
	mutated.CaseName = "Should Not Apply"
	require.NoError(t, ingester.IngestDocket(context.Background(), "us_ny_psc", mutated, true, 0))

	var row Docket
	require.NoError(t, gormDB.First(&row, "docket_govid = ?", "C-1").Error)
	require.Equal(t, "In re Acme Rates", row.Title)
}

func TestUpsertDocketRow_DeletesStaleRowUnderDifferentUUID(t *testing.T) {
	gormDB := newFullTestDB(t)
	docket := sampleDocket()

	require.NoError(t, upsertDocketRow(gormDB, docket))

	reprocessed := docket
	reprocessed.ObjectUUID = uuid.New()
	require.NoError(t, upsertDocketRow(gormDB, reprocessed))

	var count int64
	require.NoError(t, gormDB.Model(&Docket{}).Where("docket_govid = ?", "C-1").Count(&count).Error)
	require.Equal(t, int64(1), count)

	var row Docket
	require.NoError(t, gormDB.First(&row, "docket_govid = ?", "C-1").Error)
	require.Equal(t, reprocessed.ObjectUUID, row.UUID)
}
