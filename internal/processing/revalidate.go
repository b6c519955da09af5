package processing

import (
	"context"

	"github.com/google/uuid"

	"github.com/openscrapers/docketproc/internal/model"
)

// Revalidate performs the separate pass spec.md §4.3.5 describes over an
// already-processed docket: filling missing UUIDs, splitting case_type on
// " - " when case_subtype is empty, propagating attachment names up to an
// empty filing name, and resolving attachment hashes via the attachment
// index. It reports whether anything changed so the caller knows whether
// to re-upload the processed blob.
func (e *Engine) Revalidate(ctx context.Context, docket *model.ProcessedGenericDocket) bool {
	changed := false

	if docket.ObjectUUID == uuid.Nil {
		docket.ObjectUUID = uuid.New()
		changed = true
	}

	if docket.CaseSubtype == "" {
		if caseType, caseSubtype := splitCaseType(docket.CaseType); caseSubtype != "" {
			docket.CaseType = caseType
			docket.CaseSubtype = caseSubtype
			changed = true
		}
	}

	for i := range docket.Filings {
		if revalidateFiling(ctx, e, &docket.Filings[i]) {
			changed = true
		}
	}

	return changed
}

func revalidateFiling(ctx context.Context, e *Engine, filing *model.ProcessedGenericFiling) bool {
	changed := false

	if filing.ObjectUUID == uuid.Nil {
		filing.ObjectUUID = uuid.New()
		changed = true
	}

	for i := range filing.Attachments {
		if revalidateAttachment(ctx, e, &filing.Attachments[i]) {
			changed = true
		}
	}

	if filing.Name == "" {
		for _, a := range filing.Attachments {
			if a.Name != "" {
				filing.Name = a.Name
				changed = true
				break
			}
		}
	}

	return changed
}

func revalidateAttachment(ctx context.Context, e *Engine, att *model.ProcessedGenericAttachment) bool {
	changed := false

	if att.ObjectUUID == uuid.Nil {
		att.ObjectUUID = uuid.New()
		changed = true
	}

	if att.Hash == nil && att.URL != "" && e.index != nil {
		if raw, ok := e.index.Lookup(ctx, att.URL); ok && raw.Attachment.Hash != nil {
			att.Hash = raw.Attachment.Hash
			changed = true
		}
	}

	return changed
}
