// Package processing implements the raw→processed transform over dockets,
// filings, and attachments (spec.md §4.3): cache matching with UUID
// preservation, author-name normalization via the llm adapter,
// attachment-URL→hash enrichment via the attachment index, and a
// revalidation pass. The engine never aborts a docket over bad sub-data —
// corruption is handled by falling back to defaults and logging a warning.
package processing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/openscrapers/docketproc/internal/attachmentindex"
	"github.com/openscrapers/docketproc/internal/config"
	"github.com/openscrapers/docketproc/internal/model"
)

// AuthorResolver is the slice of the relational ingester's identity
// resolution the processing engine calls into inline while transforming a
// filing's authors (spec.md §4.3.3 step 4). Implemented by internal/ingest.
type AuthorResolver interface {
	AssociateOrganization(ctx context.Context, schema string, name model.OrgName) (uuid.UUID, error)
	AssociateIndividual(ctx context.Context, schema string, name model.OrgName) (uuid.UUID, error)
}

// Engine is the processing pipeline's entry point: ProcessDocket runs the
// full docket→filing→attachment transform tree.
type Engine struct {
	index    *attachmentindex.Index
	llm      llmAdapter
	authors  AuthorResolver
	logger   *zap.Logger
	fallback string

	filingSem *semaphore.Weighted
}

// llmAdapter is the subset of internal/llm.Adapter the engine consumes;
// declared locally so this package does not need to import internal/llm's
// DeepInfra-specific types.
type llmAdapter interface {
	SplitOrganizationNames(ctx context.Context, blob string) ([]model.OrgName, error)
	CleanOrganizationNames(ctx context.Context, names []model.OrgName) ([]model.OrgName, error)
}

// Config carries the engine's tunables: the global filing semaphore size and
// the individual-authors-blob fallback policy (spec.md §13).
// AttachmentConcurrency is accepted but not read by New; the per-filing
// attachment fan-out is always the attachmentConcurrency constant (5).
type Config struct {
	FilingConcurrency     int
	AttachmentConcurrency int
	FallbackPolicy        string
}

// New builds an Engine. index and authors may be nil in tests that exercise
// pure transform logic without a live blob store or database — the paths
// that need them (attachment hash lookup, author resolution) are then
// skipped.
func New(index *attachmentindex.Index, llm llmAdapter, authors AuthorResolver, cfg Config, logger *zap.Logger) *Engine {
	filingConcurrency := cfg.FilingConcurrency
	if filingConcurrency <= 0 {
		filingConcurrency = 50
	}
	fallback := cfg.FallbackPolicy
	if fallback == "" {
		fallback = config.FallbackLLMSplit
	}

	return &Engine{
		index:     index,
		llm:       llm,
		authors:   authors,
		logger:    logger.Named("processing"),
		fallback:  fallback,
		filingSem: semaphore.NewWeighted(int64(filingConcurrency)),
	}
}

// attachmentConcurrency is the local per-filing attachment fan-out
// (spec.md §5); not engine-wide like the filing semaphore, since each
// filing gets its own pool of 5.
const attachmentConcurrency = 5

// Context carries the immutable data a single ProcessDocket call needs
// beyond the raw/cached subtree itself (spec.md §4.3: "ExtraData carries
// immutable context").
type Context struct {
	Jurisdiction string
}

// splitCaseType splits "A - B" into ("A", "B"); returns the input
// unchanged with an empty subtype if no " - " separator is present.
func splitCaseType(caseType string) (string, string) {
	if idx := strings.Index(caseType, " - "); idx >= 0 {
		return strings.TrimSpace(caseType[:idx]), strings.TrimSpace(caseType[idx+len(" - "):])
	}
	return caseType, ""
}

// minOpenedDate computes opened_date per spec.md §4.3.2 step 2: the
// minimum of raw.OpenedDate and every set filing.FiledDate, defaulting to
// model.DateMax when no date exists anywhere in the subtree. It also
// reports whether any filing date preceded the raw opened_date, which the
// caller logs as a warning rather than treating as an error.
func minOpenedDate(raw *time.Time, filings []model.RawGenericFiling) (time.Time, bool) {
	min := model.DateMax
	found := false
	anomaly := false

	if raw != nil {
		min = *raw
		found = true
	}
	for _, f := range filings {
		if f.FiledDate == nil {
			continue
		}
		if raw != nil && f.FiledDate.Before(*raw) {
			anomaly = true
		}
		if !found || f.FiledDate.Before(min) {
			min = *f.FiledDate
			found = true
		}
	}
	return min, anomaly
}
