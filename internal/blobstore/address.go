// Package blobstore adapts an S3-compatible object store (DigitalOcean
// Spaces, Supabase Storage, or any S3-API-compatible endpoint) to the
// canonically-keyed download/upload/list/delete-recursive contract the
// processing pipeline is built against (spec.md §4.1).
package blobstore

import "fmt"

// Address computes the object key for one of the store's canonical
// locations. Each concrete address type below implements this so callers
// never hand-assemble key strings.
type Address interface {
	ObjectKey() string
}

// RawDocketAddress locates a RawGenericDocket under a jurisdiction.
type RawDocketAddress struct {
	Jurisdiction string
	DocketGovid  string
}

func (a RawDocketAddress) ObjectKey() string {
	return fmt.Sprintf("raw/dockets/%s/%s.json", a.Jurisdiction, a.DocketGovid)
}

// ProcessedDocketAddress locates a ProcessedGenericDocket under a jurisdiction.
type ProcessedDocketAddress struct {
	Jurisdiction string
	DocketGovid  string
}

func (a ProcessedDocketAddress) ObjectKey() string {
	return fmt.Sprintf("processed/dockets/%s/%s.json", a.Jurisdiction, a.DocketGovid)
}

// RawAttachmentMetadataAddress locates the authoritative URL→hash mapping
// record for one attachment, keyed by its content hash.
type RawAttachmentMetadataAddress struct {
	Hash string
}

func (a RawAttachmentMetadataAddress) ObjectKey() string {
	return fmt.Sprintf("raw/metadata/%s.json", a.Hash)
}

// RawFileAddress locates the raw bytes of an attachment by content hash.
type RawFileAddress struct {
	Hash string
}

func (a RawFileAddress) ObjectKey() string {
	return fmt.Sprintf("raw/file/%s", a.Hash)
}

// AttachmentIndexAddress locates the serialized global URL→RawAttachment index.
type AttachmentIndexAddress struct{}

func (a AttachmentIndexAddress) ObjectKey() string {
	return "indexes/global/attachment_urls"
}

// RawDocketsPrefix is the listing prefix covering every raw docket under a
// jurisdiction.
func RawDocketsPrefix(jurisdiction string) string {
	return fmt.Sprintf("raw/dockets/%s/", jurisdiction)
}

// ProcessedDocketsPrefix is the listing prefix covering every processed
// docket under a jurisdiction.
func ProcessedDocketsPrefix(jurisdiction string) string {
	return fmt.Sprintf("processed/dockets/%s/", jurisdiction)
}

// RawMetadataPrefix covers every RawAttachment metadata record, used by the
// attachment index to rebuild from scratch.
const RawMetadataPrefix = "raw/metadata/"
