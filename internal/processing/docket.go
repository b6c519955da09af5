package processing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openscrapers/docketproc/internal/model"
)

// ProcessDocket runs the full raw→processed transform for one docket
// (spec.md §4.3.2): cache matching and UUID preservation, opened_date
// derivation, parallel filing processing bounded solely by the engine's
// global filing semaphore, petitioner normalization, and docket-party
// derivation.
func (e *Engine) ProcessDocket(ctx context.Context, pctx Context, raw model.RawGenericDocket, cached *model.ProcessedGenericDocket) (model.ProcessedGenericDocket, error) {
	id := uuid.New()
	if cached != nil && cached.ObjectUUID != uuid.Nil {
		id = cached.ObjectUUID
	}

	opened, anomaly := minOpenedDate(raw.OpenedDate, raw.Filings)
	if anomaly {
		e.logger.Warn("filing filed_date precedes docket opened_date",
			zap.String("case_govid", raw.CaseGovid))
	}

	var cachedFilings []model.ProcessedGenericFiling
	if cached != nil {
		cachedFilings = cached.Filings
	}
	pairs := matchFilings(raw.Filings, cachedFilings)

	filings := make([]model.ProcessedGenericFiling, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			processed, err := e.processFiling(gctx, pctx.Jurisdiction, pair)
			if err != nil {
				return err
			}
			filings[i] = processed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ProcessedGenericDocket{}, err
	}

	petitioners, err := e.llm.SplitOrganizationNames(ctx, raw.Petitioner)
	if err != nil {
		e.logger.Warn("petitioner normalization failed, continuing with empty list",
			zap.String("case_govid", raw.CaseGovid), zap.Error(err))
		petitioners = nil
	}

	parties := make([]model.ProcessedParty, 0, len(raw.CaseParties))
	for _, p := range raw.CaseParties {
		if p.Kind != model.PartyKindHuman {
			e.logger.Warn("non-human docket party emitted as human placeholder",
				zap.String("case_govid", raw.CaseGovid), zap.String("party_name", p.Name))
		}
		parties = append(parties, processParty(p))
	}

	caseType, caseSubtype := raw.CaseType, raw.CaseSubtype
	if caseSubtype == "" {
		caseType, caseSubtype = splitCaseType(raw.CaseType)
	}

	return model.ProcessedGenericDocket{
		ObjectUUID:     id,
		ProcessedAt:    processedAtNow(),
		CaseGovid:      raw.CaseGovid,
		CaseName:       raw.CaseName,
		CaseURL:        raw.CaseURL,
		OpenedDate:     opened,
		ClosedDate:     raw.ClosedDate,
		CaseType:       caseType,
		CaseSubtype:    caseSubtype,
		Description:    raw.Description,
		Industry:       raw.Industry,
		HearingOfficer: raw.HearingOfficer,
		PetitionerList: petitioners,
		CaseParties:    parties,
		Filings:        filings,
		ExtraMetadata:  raw.ExtraMetadata,
		IndexedAt:      raw.IndexedAt,
	}, nil
}

// processParty derives a docket party (spec.md §4.3.2 step 6). Non-human
// parties are a known incomplete case in the source system: they are
// emitted as a human with an empty UUID rather than dropped; ProcessDocket
// logs a warning for each one.
func processParty(p model.RawParty) model.ProcessedParty {
	if p.Kind != model.PartyKindHuman {
		return model.ProcessedParty{
			Kind:  model.PartyKindHuman,
			Human: &model.ProcessedGenericHuman{Name: p.Name},
		}
	}

	first, last := splitPersonName(p.Name)
	return model.ProcessedParty{
		Kind: model.PartyKindHuman,
		Human: &model.ProcessedGenericHuman{
			Name:             p.Name,
			WesternFirstName: first,
			WesternLastName:  last,
		},
	}
}

// splitPersonName heuristically splits "First Middle Last" into
// (first, last) on the last whitespace run, matching how the relational
// ingester's UNIQUE(western_first_name, western_last_name) constraint
// expects names to be split.
func splitPersonName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, ""
	}
	return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+1:])
}

// processedAtNow is a seam over time.Now so tests can substitute a fixed
// clock without patching the global one.
var processedAtNow = func() time.Time { return time.Now().UTC() }
