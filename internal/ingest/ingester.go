package ingest

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openscrapers/docketproc/internal/apperr"
	"github.com/openscrapers/docketproc/internal/db"
	"github.com/openscrapers/docketproc/internal/model"
)

// Ingester is the relational ingester (spec.md §4.4). One Ingester serves
// every jurisdiction schema behind the shared connection pool passed to
// New.
type Ingester struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New builds an Ingester over an already-connected, already-migrated
// *gorm.DB.
func New(gormDB *gorm.DB, logger *zap.Logger) *Ingester {
	return &Ingester{db: gormDB, logger: logger.Named("ingest")}
}

var schemaIdentifier = regexp.MustCompile(`^[a-z0-9_]+$`)

// withSchema runs fn inside a transaction whose search_path is scoped to
// schema for the lifetime of that transaction only (spec.md design note:
// "SET LOCAL search_path inside per-attempt transactions", to keep pooled
// connections safe under concurrent cross-jurisdiction ingestion).
//
// SET LOCAL search_path is Postgres-only syntax; SQLite has no schema-search
// path concept at all, and the in-memory SQLite connection used by this
// package's own tests carries every jurisdiction's tables in one flat
// namespace, so scoping is simply skipped there (mirrors the driver
// branching in internal/db.New/runMigrations).
func (i *Ingester) withSchema(ctx context.Context, schema string, fn func(tx *gorm.DB) error) error {
	if !schemaIdentifier.MatchString(schema) {
		return fmt.Errorf("ingest: invalid schema name %q", schema)
	}

	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(fmt.Sprintf("SET LOCAL search_path TO %s", schema)).Error; err != nil {
				return apperr.Wrap(apperr.Transport, fmt.Errorf("ingest: set search_path: %w", err))
			}
		}
		return fn(tx)
	})
}

// AssociateOrganization resolves name against the organizations table,
// creating a row if none matches, and returns the persisted row's UUID
// (spec.md §4.4.2). It implements AuthorResolver for internal/processing.
func (i *Ingester) AssociateOrganization(ctx context.Context, schema string, name model.OrgName) (uuid.UUID, error) {
	var resolved uuid.UUID
	err := i.withSchema(ctx, schema, func(tx *gorm.DB) error {
		id, err := associateOrganization(tx, name)
		if err != nil {
			return err
		}
		resolved = id
		return nil
	})
	return resolved, err
}

func associateOrganization(tx *gorm.DB, name model.OrgName) (uuid.UUID, error) {
	if name.ObjectUUID != uuid.Nil {
		var existing Organization
		err := tx.First(&existing, "uuid = ?", name.ObjectUUID).Error
		switch {
		case err == nil && existing.Name == name.Name:
			return existing.UUID, nil
		case err != nil && err != gorm.ErrRecordNotFound:
			return uuid.Nil, apperr.Wrap(apperr.Transport, err)
		}
	}

	var byName Organization
	err := tx.First(&byName, "name = ? AND artifical_person_type = ?", name.Name, "organization").Error
	if err == nil {
		if byName.OrgSuffix == "" && name.Suffix != "" {
			if err := tx.Model(&byName).Update("org_suffix", name.Suffix).Error; err != nil {
				return uuid.Nil, apperr.Wrap(apperr.Transport, err)
			}
		}
		return byName.UUID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}

	id := name.ObjectUUID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := Organization{
		UUID:                id,
		Name:                name.Name,
		Aliases:             []string{name.Name},
		ArtificalPersonType: "organization",
		OrgSuffix:           name.Suffix,
	}

	// Race-safe insert: on a concurrent duplicate (name, artifical_person_type),
	// do nothing and fall through to re-select the winner (spec.md §5).
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "artifical_person_type"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}

	var winner Organization
	if err := tx.First(&winner, "name = ? AND artifical_person_type = ?", name.Name, "organization").Error; err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}
	return winner.UUID, nil
}

// AssociateIndividual resolves name against the humans table by
// (western_first_name, western_last_name), merging contact info by set
// union on match, and returns the persisted row's UUID. name.Name is
// split heuristically the same way the processing engine splits docket
// parties: everything before the last space is the first name.
func (i *Ingester) AssociateIndividual(ctx context.Context, schema string, name model.OrgName) (uuid.UUID, error) {
	var resolved uuid.UUID
	err := i.withSchema(ctx, schema, func(tx *gorm.DB) error {
		id, err := associateIndividual(tx, name, nil, nil)
		if err != nil {
			return err
		}
		resolved = id
		return nil
	})
	return resolved, err
}

// associateHumanWithContacts is the full form used by docket-party
// ingestion (§4.4.1 step 5), which carries structured contact fields
// rather than just a bare name.
func associateHumanWithContacts(tx *gorm.DB, human model.ProcessedGenericHuman) (uuid.UUID, error) {
	name := model.OrgName{Name: human.Name, ObjectUUID: human.ObjectUUID}
	first, last := human.WesternFirstName, human.WesternLastName
	if first == "" && last == "" {
		first, last = splitPersonName(human.Name)
	}
	return associateIndividual(tx, name, &first, &last, human.ContactEmails, human.ContactPhoneNumbers)
}

func splitPersonName(fullName string) (first, last string) {
	idx := -1
	for i := len(fullName) - 1; i >= 0; i-- {
		if fullName[i] == ' ' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fullName, ""
	}
	return fullName[:idx], fullName[idx+1:]
}

func associateIndividual(tx *gorm.DB, name model.OrgName, first, last *string, contacts ...[]string) (uuid.UUID, error) {
	firstName, lastName := "", ""
	if first != nil {
		firstName = *first
	}
	if last != nil {
		lastName = *last
	}
	if firstName == "" && lastName == "" {
		firstName, lastName = splitPersonName(name.Name)
	}

	var emails, phones []string
	if len(contacts) > 0 {
		emails = contacts[0]
	}
	if len(contacts) > 1 {
		phones = contacts[1]
	}

	if name.ObjectUUID != uuid.Nil {
		var existing Human
		err := tx.First(&existing, "uuid = ? AND western_first_name = ? AND western_last_name = ?", name.ObjectUUID, firstName, lastName).Error
		if err == nil {
			return mergeHumanContacts(tx, existing, emails, phones)
		}
		if err != gorm.ErrRecordNotFound {
			return uuid.Nil, apperr.Wrap(apperr.Transport, err)
		}
	}

	var byName Human
	err := tx.First(&byName, "western_first_name = ? AND western_last_name = ?", firstName, lastName).Error
	if err == nil {
		return mergeHumanContacts(tx, byName, emails, phones)
	}
	if err != gorm.ErrRecordNotFound {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}

	id := name.ObjectUUID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := Human{
		UUID:                id,
		Name:                name.Name,
		WesternFirstName:    firstName,
		WesternLastName:     lastName,
		ContactEmails:       sortedUnion(nil, emails),
		ContactPhoneNumbers: sortedUnion(nil, phones),
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "western_first_name"}, {Name: "western_last_name"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}

	var winner Human
	if err := tx.First(&winner, "western_first_name = ? AND western_last_name = ?", firstName, lastName).Error; err != nil {
		return uuid.Nil, apperr.Wrap(apperr.Transport, err)
	}
	return mergeHumanContacts(tx, winner, emails, phones)
}

// mergeHumanContacts implements the set-union merge from spec.md §4.4.2 and
// the scenario in §8.6: only issues an UPDATE when the merged cardinality
// differs from the existing row, and stores the merged arrays sorted
// ascending.
func mergeHumanContacts(tx *gorm.DB, existing Human, emails, phones []string) (uuid.UUID, error) {
	mergedEmails := sortedUnion([]string(existing.ContactEmails), emails)
	mergedPhones := sortedUnion([]string(existing.ContactPhoneNumbers), phones)

	if len(mergedEmails) != len(existing.ContactEmails) || len(mergedPhones) != len(existing.ContactPhoneNumbers) {
		if err := tx.Model(&existing).Updates(map[string]any{
			"contact_emails":        db.StringArray(mergedEmails),
			"contact_phone_numbers": db.StringArray(mergedPhones),
		}).Error; err != nil {
			return uuid.Nil, apperr.Wrap(apperr.Transport, err)
		}
	}

	return existing.UUID, nil
}
