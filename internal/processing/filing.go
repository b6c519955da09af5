package processing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/openscrapers/docketproc/internal/config"
	"github.com/openscrapers/docketproc/internal/model"
)

// processFiling acquires a permit from the engine's global filing
// semaphore, then runs the full filing transform (spec.md §4.3.3): pairs
// and processes attachments with a local fan-out of 5, resolves
// organization/individual authors, and writes back the resolved author
// UUIDs via e.authors.
func (e *Engine) processFiling(ctx context.Context, schema string, pair filingPair) (model.ProcessedGenericFiling, error) {
	if err := e.filingSem.Acquire(ctx, 1); err != nil {
		return model.ProcessedGenericFiling{}, err
	}
	defer e.filingSem.Release(1)

	raw := pair.raw

	id := uuid.New()
	if pair.cached != nil && pair.cached.ObjectUUID != uuid.Nil {
		id = pair.cached.ObjectUUID
	}

	attachments, err := e.processAttachments(ctx, raw, pair.cached)
	if err != nil {
		return model.ProcessedGenericFiling{}, err
	}

	orgAuthors, err := e.resolveOrganizationAuthors(ctx, schema, raw, pair.cached)
	if err != nil {
		e.logger.Warn("organization author resolution failed, continuing with empty list",
			zap.String("filling_govid", raw.FillingGovid), zap.Error(err))
		orgAuthors = nil
	}

	indAuthors, err := e.resolveIndividualAuthors(ctx, schema, raw, pair.cached)
	if err != nil {
		e.logger.Warn("individual author resolution failed, continuing with empty list",
			zap.String("filling_govid", raw.FillingGovid), zap.Error(err))
		indAuthors = nil
	}

	name := raw.Name
	if name == "" {
		for _, a := range attachments {
			if a.Name != "" {
				name = a.Name
				break
			}
		}
	}

	return model.ProcessedGenericFiling{
		ObjectUUID:          id,
		IndexInDocket:       pair.index,
		FiledDate:           raw.FiledDate,
		FillingGovid:        raw.FillingGovid,
		FillingURL:          raw.FillingURL,
		FilingType:          raw.FilingType,
		Name:                name,
		Description:         raw.Description,
		OrganizationAuthors: orgAuthors,
		IndividualAuthors:   indAuthors,
		Attachments:         attachments,
		ExtraMetadata:       raw.ExtraMetadata,
	}, nil
}

func (e *Engine) processAttachments(ctx context.Context, raw model.RawGenericFiling, cachedFiling *model.ProcessedGenericFiling) ([]model.ProcessedGenericAttachment, error) {
	var cachedAttachments []model.ProcessedGenericAttachment
	if cachedFiling != nil {
		cachedAttachments = cachedFiling.Attachments
	}
	pairs := matchAttachments(raw.Attachments, cachedAttachments)

	results := make([]model.ProcessedGenericAttachment, len(pairs))
	sem := semaphore.NewWeighted(attachmentConcurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			results[i] = processAttachment(pair)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveOrganizationAuthors implements spec.md §4.3.3 step 2: reuse a
// cached author list verbatim if one exists (already resolved, already
// carrying UUIDs); otherwise clean an explicit raw list or LLM-split the
// free-text blob. Every resulting name is then resolved against Postgres
// via e.authors, writing the resolved UUID back into the OrgName.
func (e *Engine) resolveOrganizationAuthors(ctx context.Context, schema string, raw model.RawGenericFiling, cachedFiling *model.ProcessedGenericFiling) ([]model.OrgName, error) {
	var names []model.OrgName
	var err error

	switch {
	case cachedFiling != nil && len(cachedFiling.OrganizationAuthors) > 0:
		names = cachedFiling.OrganizationAuthors
	case len(raw.OrganizationAuthors) > 0:
		names, err = e.llm.CleanOrganizationNames(ctx, raw.OrganizationAuthors)
	case raw.OrganizationAuthorsBlob != "":
		names, err = e.llm.SplitOrganizationNames(ctx, raw.OrganizationAuthorsBlob)
	}
	if err != nil {
		return nil, err
	}

	if e.authors == nil {
		return names, nil
	}
	return e.associateAll(ctx, schema, names, e.authors.AssociateOrganization)
}

// resolveIndividualAuthors implements spec.md §4.3.3 step 3. Unlike
// organization authors, the free-text blob fallback is policy-gated
// (spec.md §13): FallbackLLMSplit mirrors the organization behavior;
// FallbackWarnEmpty returns an empty list with a warning instead of
// calling the LLM, matching the source repository's more conservative
// code path.
func (e *Engine) resolveIndividualAuthors(ctx context.Context, schema string, raw model.RawGenericFiling, cachedFiling *model.ProcessedGenericFiling) ([]model.OrgName, error) {
	var names []model.OrgName
	var err error

	switch {
	case cachedFiling != nil && len(cachedFiling.IndividualAuthors) > 0:
		names = cachedFiling.IndividualAuthors
	case len(raw.IndividualAuthors) > 0:
		names, err = e.llm.CleanOrganizationNames(ctx, raw.IndividualAuthors)
	case raw.IndividualAuthorsBlob != "" && e.fallback == config.FallbackLLMSplit:
		names, err = e.llm.SplitOrganizationNames(ctx, raw.IndividualAuthorsBlob)
	case raw.IndividualAuthorsBlob != "":
		e.logger.Warn("individual_authors_blob present but fallback policy is warn_empty, skipping",
			zap.String("filling_govid", raw.FillingGovid))
	}
	if err != nil {
		return nil, err
	}

	if e.authors == nil {
		return names, nil
	}
	return e.associateAll(ctx, schema, names, e.authors.AssociateIndividual)
}

func (e *Engine) associateAll(ctx context.Context, schema string, names []model.OrgName, associate func(context.Context, string, model.OrgName) (uuid.UUID, error)) ([]model.OrgName, error) {
	if len(names) == 0 || e.authors == nil {
		return names, nil
	}

	resolved := make([]model.OrgName, len(names))
	for i, n := range names {
		id, err := associate(ctx, schema, n)
		if err != nil {
			e.logger.Warn("author identity resolution failed, leaving UUID unset",
				zap.String("name", n.Name), zap.Error(err))
			resolved[i] = n
			continue
		}
		n.ObjectUUID = id
		resolved[i] = n
	}
	return resolved, nil
}
