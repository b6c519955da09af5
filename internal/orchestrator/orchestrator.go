// Package orchestrator implements the job orchestrator (C5, spec.md §4.5):
// it accepts one of four job intent shapes bound to a jurisdiction, combines
// it with a ProcessingAction, and fans out per-docket work under a bounded
// concurrency limiter, collecting success/error counts without aborting the
// batch on individual failures.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/openscrapers/docketproc/internal/attachmentindex"
	"github.com/openscrapers/docketproc/internal/blobstore"
	"github.com/openscrapers/docketproc/internal/ingest"
	"github.com/openscrapers/docketproc/internal/jurisdiction"
	"github.com/openscrapers/docketproc/internal/metrics"
	"github.com/openscrapers/docketproc/internal/model"
	"github.com/openscrapers/docketproc/internal/processing"
)

// ProcessingAction selects which stages of the docket pipeline a job runs
// (spec.md §4.5).
type ProcessingAction string

const (
	ActionUploadRaw        ProcessingAction = "upload_raw"
	ActionProcessOnly      ProcessingAction = "process_only"
	ActionIngestOnly       ProcessingAction = "ingest_only"
	ActionProcessAndIngest ProcessingAction = "process_and_ingest"
)

// jobConcurrency is the default per-batch semaphore capacity (spec.md §5:
// "20-30"); callers may override via Config.
const jobConcurrency = 25

// maxIngestRetries bounds full-docket ingestion retries (spec.md §7:
// "retryable at the docket level (C4 retries up to 3)").
const maxIngestRetries = 3

// Config carries the orchestrator's tunables.
type Config struct {
	JobConcurrency int
}

// Orchestrator is the job orchestrator. One instance is shared across HTTP
// requests and any scheduled sweeps.
type Orchestrator struct {
	store   *blobstore.Store
	index   *attachmentindex.Index
	engine  *processing.Engine
	ingest  *ingest.Ingester
	logger  *zap.Logger
	jobSem  *semaphore.Weighted
}

// New builds an Orchestrator.
func New(store *blobstore.Store, index *attachmentindex.Index, engine *processing.Engine, ingester *ingest.Ingester, cfg Config, logger *zap.Logger) *Orchestrator {
	capacity := cfg.JobConcurrency
	if capacity <= 0 {
		capacity = jobConcurrency
	}
	return &Orchestrator{
		store:  store,
		index:  index,
		engine: engine,
		ingest: ingester,
		logger: logger.Named("orchestrator"),
		jobSem: semaphore.NewWeighted(int64(capacity)),
	}
}

// Result is the outcome of running a batch of docket actions (spec.md §6:
// "{processed_dockets?, success_count, error_count}").
type Result struct {
	ProcessedDockets []model.ProcessedGenericDocket
	SuccessCount     int
	ErrorCount       int
}

// RunRawDockets implements the RawDockets intent: the payload itself
// carries the raw dockets to act on.
func (o *Orchestrator) RunRawDockets(ctx context.Context, j jurisdiction.FixedJurisdiction, action ProcessingAction, dockets []model.RawGenericDocket) Result {
	return o.fanOut(ctx, j.SchemaName(), len(dockets), func(i int) (*model.ProcessedGenericDocket, error) {
		return o.runOne(ctx, j, action, dockets[i])
	})
}

// RunByIds implements the ByIds intent: download each named raw docket from
// the blob store, then run action. UploadRaw is a no-op here — it only
// applies to the RawDockets intent, which is the only one carrying a raw
// payload to upload (spec.md §4.5).
func (o *Orchestrator) RunByIds(ctx context.Context, j jurisdiction.FixedJurisdiction, action ProcessingAction, docketGovids []string) Result {
	if action == ActionUploadRaw {
		return o.fanOut(ctx, j.SchemaName(), len(docketGovids), func(i int) (*model.ProcessedGenericDocket, error) {
			return nil, nil
		})
	}

	// IngestOnly downloads the processed docket straight from docketGovid
	// (see runOne's ActionIngestOnly branch) and never touches the raw blob,
	// so it must not require one to exist.
	if action == ActionIngestOnly {
		return o.fanOut(ctx, j.SchemaName(), len(docketGovids), func(i int) (*model.ProcessedGenericDocket, error) {
			return o.runOne(ctx, j, action, model.RawGenericDocket{CaseGovid: docketGovids[i]})
		})
	}

	return o.fanOut(ctx, j.SchemaName(), len(docketGovids), func(i int) (*model.ProcessedGenericDocket, error) {
		raw, err := o.downloadRaw(ctx, j, docketGovids[i])
		if err != nil {
			return nil, err
		}
		return o.runOne(ctx, j, action, raw)
	})
}

// RunByJurisdiction implements the ByJurisdiction intent: list every raw
// docket under the jurisdiction's blob-store prefix and run action on each.
func (o *Orchestrator) RunByJurisdiction(ctx context.Context, j jurisdiction.FixedJurisdiction, action ProcessingAction) (Result, error) {
	stems, err := o.store.List(ctx, blobstore.RawDocketsPrefix(j.SchemaName()))
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: list raw dockets for %s: %w", j, err)
	}

	govids := make([]string, len(stems))
	for i, stem := range stems {
		govids[i] = trimJSONSuffix(stem)
	}

	return o.RunByIds(ctx, j, action, govids), nil
}

// DateRangeLookup resolves from Postgres the docket_govids whose
// opened_date falls within [startDate, endDate], for the ByDateRange intent. Implemented by the caller (cmd/server wires
// this against the ingester's schema) since it is a read against the same
// jurisdiction schema the ingester owns.
type DateRangeLookup func(ctx context.Context, schema string, startDate, endDate string) ([]string, error)

// RunByDateRange implements the ByDateRange intent.
func (o *Orchestrator) RunByDateRange(ctx context.Context, j jurisdiction.FixedJurisdiction, action ProcessingAction, startDate, endDate string, lookup DateRangeLookup) (Result, error) {
	govids, err := lookup(ctx, j.SchemaName(), startDate, endDate)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: date range lookup for %s: %w", j, err)
	}
	return o.RunByIds(ctx, j, action, govids), nil
}

func (o *Orchestrator) downloadRaw(ctx context.Context, j jurisdiction.FixedJurisdiction, docketGovid string) (model.RawGenericDocket, error) {
	var raw model.RawGenericDocket
	err := blobstore.Download(ctx, o.store, blobstore.RawDocketAddress{
		Jurisdiction: j.SchemaName(), DocketGovid: docketGovid,
	}, &raw)
	return raw, err
}

func trimJSONSuffix(stem string) string {
	const suffix = ".json"
	if len(stem) > len(suffix) && stem[len(stem)-len(suffix):] == suffix {
		return stem[:len(stem)-len(suffix)]
	}
	return stem
}

// fanOut runs fn for indices [0, n) under the job-level semaphore,
// collecting successes and failures without aborting the batch (spec.md
// §4.5: "individual failures are logged and do not abort the batch").
func (o *Orchestrator) fanOut(ctx context.Context, jurisdictionLabel string, n int, fn func(i int) (*model.ProcessedGenericDocket, error)) Result {
	processed := make([]*model.ProcessedGenericDocket, n)
	errs := make([]error, n)

	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer func() { done <- struct{}{} }()
			if err := o.jobSem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return
			}
			defer o.jobSem.Release(1)

			p, err := fn(i)
			processed[i] = p
			errs[i] = err
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	result := Result{}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			o.logger.Error("docket action failed", zap.Int("index", i), zap.Error(errs[i]))
			result.ErrorCount++
			metrics.DocketsProcessed.WithLabelValues(jurisdictionLabel, "error").Inc()
			continue
		}
		result.SuccessCount++
		metrics.DocketsProcessed.WithLabelValues(jurisdictionLabel, "success").Inc()
		if processed[i] != nil {
			result.ProcessedDockets = append(result.ProcessedDockets, *processed[i])
		}
	}
	return result
}
