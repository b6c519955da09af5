package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessedGenericDocket is the canonical, post-normalization form of a
// docket — the system of record at the blob-store layer (spec.md §3).
//
// Invariants (enforced by the processing engine, see internal/processing):
//   - ObjectUUID is non-zero after processing.
//   - OpenedDate equals min(raw.OpenedDate, min(filing.FiledDate)), defaulting
//     to DateMax if no dates exist anywhere in the subtree.
//   - CaseSubtype is non-empty whenever CaseType embedded a "X - Y" pattern
//     in the raw input; CaseType is split down to just "X" in that case.
//   - Filings is sorted by IndexInDocket ascending; indexes are a permutation
//     of 0..len(Filings).
type ProcessedGenericDocket struct {
	ObjectUUID      uuid.UUID                 `json:"object_uuid"`
	ProcessedAt     time.Time                 `json:"processed_at"`
	CaseGovid       string                    `json:"case_govid"`
	CaseName        string                    `json:"case_name"`
	CaseURL         string                    `json:"case_url"`
	OpenedDate      time.Time                 `json:"opened_date"`
	ClosedDate      *time.Time                `json:"closed_date,omitempty"`
	CaseType        string                    `json:"case_type"`
	CaseSubtype     string                    `json:"case_subtype"`
	Description     string                    `json:"description"`
	Industry        string                    `json:"industry"`
	HearingOfficer  string                    `json:"hearing_officer"`
	PetitionerList  []OrgName                 `json:"petitioner_list"`
	CaseParties     []ProcessedParty          `json:"case_parties"`
	Filings         []ProcessedGenericFiling  `json:"filings"`
	ExtraMetadata   map[string]json.RawMessage `json:"extra_metadata,omitempty"`
	IndexedAt       time.Time                 `json:"indexed_at"`
}

// DateMax is the sentinel used for OpenedDate when a docket has no filings
// and no raw opened_date (spec.md §3, §8 boundary behavior).
var DateMax = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// ProcessedParty is the tagged union over docket parties. The sum type is
// kept faithful to the source data model (spec.md §9) even though the
// engine today only ever constructs the Human variant; Organization is
// reserved for when the engine grows organization-party handling.
type ProcessedParty struct {
	Kind         PartyKind              `json:"kind"`
	Human        *ProcessedGenericHuman `json:"human,omitempty"`
	Organization *OrgName               `json:"organization,omitempty"`
}

// ProcessedGenericHuman is a resolved (or resolvable) human identity —
// either a docket party or a filing's individual author. ObjectUUID is nil
// until the relational ingester resolves or creates the backing row.
type ProcessedGenericHuman struct {
	ObjectUUID          uuid.UUID `json:"object_uuid"`
	Name                string    `json:"name"`
	WesternFirstName    string    `json:"western_first_name"`
	WesternLastName     string    `json:"western_last_name"`
	ContactEmails       []string  `json:"contact_emails,omitempty"`
	ContactPhoneNumbers []string  `json:"contact_phone_numbers,omitempty"`
}

// ProcessedGenericFiling is a single dated submission within a processed
// docket. Name falls back to the first non-empty attachment name when the
// raw name is empty (spec.md §3, §8).
type ProcessedGenericFiling struct {
	ObjectUUID          uuid.UUID                    `json:"object_uuid"`
	IndexInDocket       int                           `json:"index_in_docket"`
	FiledDate           *time.Time                    `json:"filed_date,omitempty"`
	FillingGovid        string                        `json:"filling_govid"`
	FillingURL          string                        `json:"filling_url"`
	FilingType          string                        `json:"filing_type"`
	Name                string                        `json:"name"`
	Description         string                        `json:"description"`
	OrganizationAuthors []OrgName                     `json:"organization_authors"`
	IndividualAuthors   []OrgName                     `json:"individual_authors"`
	Attachments         []ProcessedGenericAttachment  `json:"attachments"`
	ExtraMetadata       map[string]json.RawMessage    `json:"extra_metadata,omitempty"`
}

// ProcessedGenericAttachment is a single file attached to a processed
// filing. Hash is absent when neither the raw data, the cache, nor a
// revalidation pass's attachment-URL-index lookup could resolve one.
type ProcessedGenericAttachment struct {
	ObjectUUID        uuid.UUID                  `json:"object_uuid"`
	IndexInFilling    int                        `json:"index_in_filling"`
	Name              string                     `json:"name"`
	DocumentExtension string                     `json:"document_extension"`
	AttachmentGovid   string                     `json:"attachment_govid"`
	URL               string                     `json:"url"`
	AttachmentType    string                     `json:"attachment_type"`
	AttachmentSubtype string                     `json:"attachment_subtype"`
	ExtraMetadata     map[string]json.RawMessage `json:"extra_metadata,omitempty"`
	Hash              *Blake2bHash               `json:"hash,omitempty"`
}
