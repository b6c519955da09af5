package processing

import (
	"github.com/google/uuid"

	"github.com/openscrapers/docketproc/internal/model"
)

// processAttachment mints or reuses an attachment's UUID and carries
// through its content hash (spec.md §4.3.4). hash resolution against the
// attachment-URL index happens later, in the revalidation pass — not here,
// since that index lookup is explicitly deferred to "a revalidation pass".
func processAttachment(pair attachmentPair) model.ProcessedGenericAttachment {
	id := uuid.New()
	if pair.cached != nil && pair.cached.ObjectUUID != uuid.Nil {
		id = pair.cached.ObjectUUID
	}

	hash := pair.raw.Hash
	if hash == nil && pair.cached != nil {
		hash = pair.cached.Hash
	}

	return model.ProcessedGenericAttachment{
		ObjectUUID:        id,
		IndexInFilling:    pair.index,
		Name:              pair.raw.Name,
		DocumentExtension: pair.raw.DocumentExtension,
		AttachmentGovid:   pair.raw.AttachmentGovid,
		URL:               pair.raw.URL,
		AttachmentType:    pair.raw.AttachmentType,
		AttachmentSubtype: pair.raw.AttachmentSubtype,
		ExtraMetadata:     pair.raw.ExtraMetadata,
		Hash:              hash,
	}
}
