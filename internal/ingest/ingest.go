package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openscrapers/docketproc/internal/apperr"
	"github.com/openscrapers/docketproc/internal/metrics"
	"github.com/openscrapers/docketproc/internal/model"
)

// IngestDocket performs a full upsert of the docket subtree (spec.md
// §4.4.1). On error, the partial row (keyed by docket_govid) is deleted
// before the next attempt; transactions are scoped per-attempt, not across
// attempts. When ignoreExisting is true and a row with the same
// docket_govid already exists, ingestion is skipped entirely.
func (i *Ingester) IngestDocket(ctx context.Context, schema string, docket model.ProcessedGenericDocket, ignoreExisting bool, maxRetries int) error {
	if ignoreExisting {
		exists, err := i.docketExists(ctx, schema, docket.CaseGovid)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := i.withSchema(ctx, schema, func(tx *gorm.DB) error {
			return ingestDocketOnce(tx, docket)
		})
		if err == nil {
			return nil
		}

		lastErr = err
		metrics.IngestRetries.WithLabelValues(schema).Inc()
		i.logger.Warn("ingest attempt failed, deleting partial row and retrying",
			zap.String("docket_govid", docket.CaseGovid), zap.Int("attempt", attempt), zap.Error(err))

		_ = i.withSchema(ctx, schema, func(tx *gorm.DB) error {
			return tx.Exec("DELETE FROM dockets WHERE docket_govid = ?", docket.CaseGovid).Error
		})
	}

	return apperr.Wrap(apperr.InvariantViolation,
		fmt.Errorf("ingest: exhausted %d retries for docket %s: %w", maxRetries, docket.CaseGovid, lastErr))
}

func (i *Ingester) docketExists(ctx context.Context, schema, govid string) (bool, error) {
	var exists bool
	err := i.withSchema(ctx, schema, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Docket{}).Where("docket_govid = ?", govid).Count(&count).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
		exists = count > 0
		return nil
	})
	return exists, err
}

func ingestDocketOnce(tx *gorm.DB, docket model.ProcessedGenericDocket) error {
	if err := upsertDocketRow(tx, docket); err != nil {
		return err
	}

	for _, petitioner := range docket.PetitionerList {
		orgID, err := associateOrganization(tx, petitioner)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&DocketPetitionedByOrg{
			DocketUUID: docket.ObjectUUID, OrganizationUUID: orgID,
		}).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
	}

	for _, party := range docket.CaseParties {
		if party.Human == nil {
			continue
		}
		humanID, err := associateHumanWithContacts(tx, *party.Human)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&IndividualOfficialPartyToDocket{
			DocketUUID: docket.ObjectUUID, HumanUUID: humanID,
		}).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
	}

	for _, filing := range docket.Filings {
		if err := ingestFiling(tx, docket.ObjectUUID, docket.CaseGovid, filing); err != nil {
			return err
		}
	}

	return nil
}

func upsertDocketRow(tx *gorm.DB, docket model.ProcessedGenericDocket) error {
	var existing Docket
	err := tx.First(&existing, "docket_govid = ?", docket.CaseGovid).Error
	switch {
	case err == nil && existing.UUID != docket.ObjectUUID:
		// Stale row under the same natural key but a different surrogate
		// UUID would leak into joins (spec.md §13 open question): delete it
		// before inserting the new one.
		if err := tx.Where("docket_govid = ?", docket.CaseGovid).Delete(&Docket{}).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
	case err != nil && err != gorm.ErrRecordNotFound:
		return apperr.Wrap(apperr.Transport, err)
	}

	petitionerStrings := make([]string, 0, len(docket.PetitionerList))
	for _, p := range docket.PetitionerList {
		petitionerStrings = append(petitionerStrings, p.Name)
	}

	row := Docket{
		UUID:              docket.ObjectUUID,
		DocketGovid:       docket.CaseGovid,
		Title:             docket.CaseName,
		Description:       docket.Description,
		Industry:          docket.Industry,
		HearingOfficer:    docket.HearingOfficer,
		OpenedDate:        &docket.OpenedDate,
		ClosedDate:        docket.ClosedDate,
		PetitionerStrings: petitionerStrings,
		DocketType:        docket.CaseType,
		DocketSubtype:     docket.CaseSubtype,
	}

	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"docket_govid", "title", "description", "industry", "hearing_officer",
			"opened_date", "closed_date", "petitioner_strings", "docket_type", "docket_subtype", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Errorf("ingest: upsert docket %s: %w", docket.CaseGovid, err))
	}
	return nil
}

func ingestFiling(tx *gorm.DB, docketUUID uuid.UUID, docketGovid string, filing model.ProcessedGenericFiling) error {
	orgStrings := make([]string, 0, len(filing.OrganizationAuthors))
	for _, a := range filing.OrganizationAuthors {
		orgStrings = append(orgStrings, a.Name)
	}
	indStrings := make([]string, 0, len(filing.IndividualAuthors))
	for _, a := range filing.IndividualAuthors {
		indStrings = append(indStrings, a.Name)
	}

	row := Filing{
		UUID:                      filing.ObjectUUID,
		DocketUUID:                docketUUID,
		DocketGovid:               docketGovid,
		IndividualAuthorStrings:   indStrings,
		OrganizationAuthorStrings: orgStrings,
		FiledDate:                 filing.FiledDate,
		FillingType:               filing.FilingType,
		FillingName:               filing.Name,
		FillingDescription:        filing.Description,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"docket_uuid", "docket_govid", "individual_author_strings", "organization_author_strings",
			"filed_date", "filling_type", "filling_name", "filling_description", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Errorf("ingest: upsert filing %s: %w", filing.FillingGovid, err))
	}

	for _, att := range filing.Attachments {
		if err := ingestAttachment(tx, filing.ObjectUUID, att); err != nil {
			return err
		}
	}

	for _, org := range filing.OrganizationAuthors {
		orgID, err := associateOrganization(tx, org)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&FilingOnBehalfOfOrgRelation{
			FilingUUID: filing.ObjectUUID, OrganizationUUID: orgID,
		}).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
	}

	for _, ind := range filing.IndividualAuthors {
		humanID, err := associateIndividual(tx, ind, nil, nil)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&FilingFiledByIndividual{
			FilingUUID: filing.ObjectUUID, HumanUUID: humanID,
		}).Error; err != nil {
			return apperr.Wrap(apperr.Transport, err)
		}
	}

	return nil
}

func ingestAttachment(tx *gorm.DB, filingUUID uuid.UUID, att model.ProcessedGenericAttachment) error {
	hash := ""
	if att.Hash != nil {
		hash = att.Hash.String()
	}

	row := Attachment{
		UUID:                    att.ObjectUUID,
		ParentFillingUUID:       filingUUID,
		Blake2bHash:             hash,
		AttachmentFileExtension: att.DocumentExtension,
		AttachmentFileName:      att.Name,
		AttachmentTitle:         att.Name,
		AttachmentURL:           att.URL,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"parent_filling_uuid", "blake2b_hash", "attachment_file_extension",
			"attachment_file_name", "attachment_title", "attachment_url", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Errorf("ingest: upsert attachment %s: %w", att.AttachmentGovid, err))
	}
	return nil
}
