// Package ingest is the relational ingester (spec.md §4.4): it upserts a
// processed docket subtree into Postgres, resolving organization and human
// identities with race-safe merge-on-match, and supports a cascade-safe
// full purge per jurisdiction schema.
package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/openscrapers/docketproc/internal/db"
)

// Docket is the GORM row type backing the dockets table.
type Docket struct {
	UUID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocketGovid        string    `gorm:"uniqueIndex;not null"`
	Title              string
	Description        string
	Industry           string
	HearingOfficer     string
	OpenedDate         *time.Time
	ClosedDate         *time.Time
	PetitionerStrings  db.StringArray
	DocketType         string
	DocketSubtype      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Docket) TableName() string { return "dockets" }

// Filing is the GORM row type backing the fillings table. The misspelling
// ("filling") matches the upstream source schema's column/table naming.
type Filing struct {
	UUID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocketUUID                 uuid.UUID `gorm:"type:uuid;not null;index"`
	DocketGovid                string
	IndividualAuthorStrings    db.StringArray
	OrganizationAuthorStrings  db.StringArray
	FiledDate                  *time.Time
	FillingType                string
	FillingName                string
	FillingDescription         string
	OpenscrapersID              string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (Filing) TableName() string { return "fillings" }

// Attachment is the GORM row type backing the attachments table.
type Attachment struct {
	UUID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParentFillingUUID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Blake2bHash              string
	AttachmentFileExtension  string
	AttachmentFileName       string
	AttachmentTitle          string
	AttachmentURL            string
	OpenscrapersID           string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (Attachment) TableName() string { return "attachments" }

// Human is the GORM row type backing the humans table.
type Human struct {
	UUID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string
	WesternFirstName     string `gorm:"uniqueIndex:humans_name_idx"`
	WesternLastName      string `gorm:"uniqueIndex:humans_name_idx"`
	ContactEmails        db.StringArray
	ContactPhoneNumbers  db.StringArray
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Human) TableName() string { return "humans" }

// Organization is the GORM row type backing the organizations table.
type Organization struct {
	UUID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"uniqueIndex:organizations_name_idx"`
	Aliases              db.StringArray
	Description          string
	ArtificalPersonType  string `gorm:"uniqueIndex:organizations_name_idx;column:artifical_person_type"`
	OrgSuffix            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Organization) TableName() string { return "organizations" }

// DocketPetitionedByOrg is the docket↔organization petitioner relation.
type DocketPetitionedByOrg struct {
	DocketUUID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationUUID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (DocketPetitionedByOrg) TableName() string { return "docket_petitioned_by_org" }

// IndividualOfficialPartyToDocket is the docket↔human docket-party relation.
type IndividualOfficialPartyToDocket struct {
	DocketUUID uuid.UUID `gorm:"type:uuid;primaryKey"`
	HumanUUID  uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (IndividualOfficialPartyToDocket) TableName() string {
	return "individual_offical_party_to_docket"
}

// FilingOnBehalfOfOrgRelation is the filing↔organization author relation.
type FilingOnBehalfOfOrgRelation struct {
	FilingUUID       uuid.UUID `gorm:"type:uuid;primaryKey;column:filling_uuid"`
	OrganizationUUID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (FilingOnBehalfOfOrgRelation) TableName() string {
	return "fillings_on_behalf_of_org_relation"
}

// FilingFiledByIndividual is the filing↔human author relation.
type FilingFiledByIndividual struct {
	FilingUUID uuid.UUID `gorm:"type:uuid;primaryKey;column:filling_uuid"`
	HumanUUID  uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (FilingFiledByIndividual) TableName() string { return "fillings_filed_by_individual" }
