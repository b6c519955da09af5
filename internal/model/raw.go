// Package model defines the raw and processed docket/filing/attachment data
// model (spec.md §3). Raw types are what scrapers produce and are
// deserialized directly from scraper JSON; processed types are the
// canonical, post-normalization form persisted as the blob-store system of
// record and projected into Postgres by the relational ingester.
package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// errInvalidHexDigit is returned by Blake2bHash.UnmarshalJSON when a hash
// string contains a non-hex character.
var errInvalidHexDigit = errors.New("model: invalid hex digit")

// OrgName is a normalized organization-or-person name carrying a trailing
// suffix (e.g. "LLC"). Equality for identity resolution purposes is by Name
// only — Suffix is a merge field, not part of identity. ObjectUUID is filled
// in by the relational ingester once the underlying row has been resolved or
// created; it starts zero-valued on every freshly processed value.
type OrgName struct {
	Name       string    `json:"name"`
	Suffix     string    `json:"suffix,omitempty"`
	ObjectUUID uuid.UUID `json:"object_uuid,omitempty"`
}

// RawParty covers the two kinds of docket party the source system models,
// discriminated by its Kind field. In practice, scrapers only ever emit Human parties
// (spec.md §9) — the Organization branch exists so the sum type is faithful
// to the source schema, not because the engine currently produces it.
type RawParty struct {
	Kind PartyKind `json:"kind"`
	Name string    `json:"name"`
}

// PartyKind discriminates RawParty/ProcessedParty variants.
type PartyKind string

const (
	PartyKindHuman        PartyKind = "human"
	PartyKindOrganization PartyKind = "organization"
)

// RawGenericDocket is the scraper-produced representation of a regulatory
// docket, before cache matching, UUID assignment, or name normalization.
type RawGenericDocket struct {
	CaseGovid      string                     `json:"case_govid"`
	CaseName       string                     `json:"case_name"`
	CaseURL        string                     `json:"case_url"`
	OpenedDate     *time.Time                 `json:"opened_date,omitempty"`
	ClosedDate     *time.Time                 `json:"closed_date,omitempty"`
	CaseType       string                     `json:"case_type"`
	CaseSubtype    string                     `json:"case_subtype"`
	Description    string                     `json:"description"`
	Industry       string                     `json:"industry"`
	HearingOfficer string                     `json:"hearing_officer"`
	Petitioner     string                     `json:"petitioner"`
	CaseParties    []RawParty                 `json:"case_parties"`
	Filings        []RawGenericFiling         `json:"filings"`
	ExtraMetadata  map[string]json.RawMessage `json:"extra_metadata,omitempty"`
	IndexedAt      time.Time                  `json:"indexed_at"`
}

// RawGenericFiling is a single dated submission within a RawGenericDocket.
type RawGenericFiling struct {
	FillingGovid            string                     `json:"filling_govid"`
	FillingURL               string                     `json:"filling_url"`
	Name                     string                     `json:"name"`
	FiledDate                *time.Time                 `json:"filed_date,omitempty"`
	FilingType               string                     `json:"filing_type"`
	Description              string                     `json:"description"`
	OrganizationAuthors      []OrgName                  `json:"organization_authors"`
	OrganizationAuthorsBlob  string                     `json:"organization_authors_blob"`
	IndividualAuthors        []OrgName                  `json:"individual_authors"`
	IndividualAuthorsBlob    string                     `json:"individual_authors_blob"`
	Attachments              []RawGenericAttachment     `json:"attachments"`
	ExtraMetadata            map[string]json.RawMessage `json:"extra_metadata,omitempty"`
}

// RawGenericAttachment is a single file attached to a RawGenericFiling.
// Hash is present only when the scraper itself computed a content hash;
// otherwise it is resolved later via the attachment-URL index (spec.md §4.3.4).
type RawGenericAttachment struct {
	Name               string                     `json:"name"`
	DocumentExtension  string                     `json:"document_extension"`
	AttachmentGovid    string                     `json:"attachment_govid"`
	URL                string                     `json:"url"`
	AttachmentType     string                     `json:"attachment_type"`
	AttachmentSubtype  string                     `json:"attachment_subtype"`
	ExtraMetadata      map[string]json.RawMessage `json:"extra_metadata,omitempty"`
	Hash               *Blake2bHash               `json:"hash,omitempty"`
}

// RawAttachment is the record stored at raw/metadata/<hash>.json: a single
// attachment's scraped metadata alongside the jurisdiction that produced it.
// The attachment-URL index (internal/attachmentindex) keys its cache by
// Attachment.URL but carries the whole record, since cross-jurisdiction
// tooling (e.g. the original deployment's bucket-to-bucket transfer task)
// needs to filter entries by jurisdiction without a second lookup.
type RawAttachment struct {
	Attachment   RawGenericAttachment `json:"attachment"`
	Jurisdiction JurisdictionInfo     `json:"jurisdiction_info"`
}

// JurisdictionInfo identifies the regulatory body an attachment was scraped
// from. It mirrors jurisdiction.FixedJurisdiction's shape but lives in
// model to avoid an import cycle (internal/jurisdiction does not, and must
// not, depend on internal/model).
type JurisdictionInfo struct {
	Country      string `json:"country"`
	State        string `json:"state,omitempty"`
	Jurisdiction string `json:"jurisdiction"`
}

// Blake2bHash is the 32-byte content hash used to identify attachments and
// file blobs (spec.md glossary).
type Blake2bHash [32]byte

// String renders the hash as lowercase hex, matching the Postgres
// attachments.blake2b_hash column convention (spec.md §4.4.1).
func (h Blake2bHash) String() string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, 64)
	for i, b := range h {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf)
}

// MarshalJSON encodes the hash as a lowercase hex string.
func (h Blake2bHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a lowercase (or uppercase) hex string into the hash.
func (h *Blake2bHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := decodeHex(s)
	if err != nil {
		return err
	}
	copy(h[:], decoded)
	return nil
}

func decodeHex(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexDigit(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexDigit(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, errInvalidHexDigit
	}
}
