package orchestrator

import (
	"context"
	"fmt"

	"github.com/openscrapers/docketproc/internal/blobstore"
	"github.com/openscrapers/docketproc/internal/jurisdiction"
	"github.com/openscrapers/docketproc/internal/model"
	"github.com/openscrapers/docketproc/internal/processing"
)

// runOne dispatches a single docket through the requested action (spec.md
// §4.5's action table).
func (o *Orchestrator) runOne(ctx context.Context, j jurisdiction.FixedJurisdiction, action ProcessingAction, raw model.RawGenericDocket) (*model.ProcessedGenericDocket, error) {
	switch action {
	case ActionUploadRaw:
		return nil, o.uploadRaw(ctx, j, raw)

	case ActionProcessOnly:
		processed, err := o.processOnly(ctx, j, raw)
		return processed, err

	case ActionIngestOnly:
		processed, err := o.downloadProcessed(ctx, j, raw.CaseGovid)
		if err != nil {
			return nil, err
		}
		if err := o.ingest.IngestDocket(ctx, j.SchemaName(), processed, false, maxIngestRetries); err != nil {
			return nil, err
		}
		return &processed, nil

	case ActionProcessAndIngest:
		processed, err := o.processOnly(ctx, j, raw)
		if err != nil {
			return nil, err
		}
		if err := o.ingest.IngestDocket(ctx, j.SchemaName(), *processed, false, maxIngestRetries); err != nil {
			return processed, err
		}
		return processed, nil

	default:
		return nil, fmt.Errorf("orchestrator: unknown processing action %q", action)
	}
}

func (o *Orchestrator) uploadRaw(ctx context.Context, j jurisdiction.FixedJurisdiction, raw model.RawGenericDocket) error {
	return blobstore.Upload(ctx, o.store, blobstore.RawDocketAddress{
		Jurisdiction: j.SchemaName(), DocketGovid: raw.CaseGovid,
	}, raw)
}

func (o *Orchestrator) downloadProcessed(ctx context.Context, j jurisdiction.FixedJurisdiction, docketGovid string) (model.ProcessedGenericDocket, error) {
	var processed model.ProcessedGenericDocket
	err := blobstore.Download(ctx, o.store, blobstore.ProcessedDocketAddress{
		Jurisdiction: j.SchemaName(), DocketGovid: docketGovid,
	}, &processed)
	return processed, err
}

// processOnly downloads any cached processed counterpart, runs the
// transform, revalidates, and writes the result back to the blob store
// (spec.md §4.5: "Download raw → process → upload processed; no SQL").
func (o *Orchestrator) processOnly(ctx context.Context, j jurisdiction.FixedJurisdiction, raw model.RawGenericDocket) (*model.ProcessedGenericDocket, error) {
	cached, err := o.downloadProcessed(ctx, j, raw.CaseGovid)
	var cachedPtr *model.ProcessedGenericDocket
	if err == nil {
		cachedPtr = &cached
	}

	processed, err := o.engine.ProcessDocket(ctx, processing.Context{Jurisdiction: j.SchemaName()}, raw, cachedPtr)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: process docket %s: %w", raw.CaseGovid, err)
	}

	o.engine.Revalidate(ctx, &processed)

	if err := blobstore.Upload(ctx, o.store, blobstore.ProcessedDocketAddress{
		Jurisdiction: j.SchemaName(), DocketGovid: raw.CaseGovid,
	}, processed); err != nil {
		return nil, fmt.Errorf("orchestrator: upload processed docket %s: %w", raw.CaseGovid, err)
	}

	return &processed, nil
}
