package processing

import "github.com/openscrapers/docketproc/internal/model"

// filingPair binds a raw filing to its cached processed counterpart, if
// any, preserving the raw order (spec.md §4.3.1).
type filingPair struct {
	raw    model.RawGenericFiling
	cached *model.ProcessedGenericFiling
	index  int
}

// matchFilings pairs raw filings with entries of a previously-processed
// docket's filings by filling_govid. Raws without a govid, or whose govid
// has no counterpart in processed, are paired with a nil cache — the
// transform then mints a fresh UUID.
func matchFilings(raw []model.RawGenericFiling, processed []model.ProcessedGenericFiling) []filingPair {
	byGovid := make(map[string]model.ProcessedGenericFiling, len(processed))
	for _, p := range processed {
		if p.FillingGovid != "" {
			byGovid[p.FillingGovid] = p
		}
	}

	pairs := make([]filingPair, len(raw))
	for i, r := range raw {
		pair := filingPair{raw: r, index: i}
		if r.FillingGovid != "" {
			if p, ok := byGovid[r.FillingGovid]; ok {
				cached := p
				pair.cached = &cached
			}
		}
		pairs[i] = pair
	}
	return pairs
}

// attachmentPair binds a raw attachment to its cached processed
// counterpart, if any.
type attachmentPair struct {
	raw    model.RawGenericAttachment
	cached *model.ProcessedGenericAttachment
	index  int
}

// matchAttachments pairs raw attachments with a filing's previously
// processed attachments by attachment_govid.
func matchAttachments(raw []model.RawGenericAttachment, processed []model.ProcessedGenericAttachment) []attachmentPair {
	byGovid := make(map[string]model.ProcessedGenericAttachment, len(processed))
	for _, p := range processed {
		if p.AttachmentGovid != "" {
			byGovid[p.AttachmentGovid] = p
		}
	}

	pairs := make([]attachmentPair, len(raw))
	for i, r := range raw {
		pair := attachmentPair{raw: r, index: i}
		if r.AttachmentGovid != "" {
			if p, ok := byGovid[r.AttachmentGovid]; ok {
				cached := p
				pair.cached = &cached
			}
		}
		pairs[i] = pair
	}
	return pairs
}
