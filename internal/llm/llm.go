// Package llm adapts free-form organization-name text into structured
// model.OrgName values, either via a hosted chat-completion model
// (DeepInfra) or, when no API key is configured, a deterministic heuristic
// splitter usable in tests and offline environments (spec.md §9: "allow the
// adapter to be stubbed in tests").
package llm

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/openscrapers/docketproc/internal/model"
)

// OrgNameSplitter turns a free-text author blob ("Acme Corp and Jane Doe on
// behalf of consumers") into a list of structured names.
type OrgNameSplitter interface {
	SplitOrganizationNames(ctx context.Context, blob string) ([]model.OrgName, error)
}

// OrgNameCleaner normalizes a list of already-structured names — trimming
// stray punctuation, splitting conjoined entries, standardizing suffixes —
// without needing the original free-text blob.
type OrgNameCleaner interface {
	CleanOrganizationNames(ctx context.Context, names []model.OrgName) ([]model.OrgName, error)
}

// Adapter composes both capabilities. Per-blob memoization (spec.md §9:
// "cache per-blob results for the life of a run") is added by wrapping an
// Adapter with WithCache.
type Adapter interface {
	OrgNameSplitter
	OrgNameCleaner
}

// cachingAdapter wraps an Adapter with a per-blob result cache so repeated
// author blobs within one orchestrator run (a docket resubmitted, or a
// batch sharing a common petitioner string) only pay the network cost once.
type cachingAdapter struct {
	inner Adapter

	mu         sync.Mutex
	splitCache map[string][]model.OrgName
}

// WithCache wraps inner with blob-level memoization.
func WithCache(inner Adapter) Adapter {
	return &cachingAdapter{inner: inner, splitCache: make(map[string][]model.OrgName)}
}

func (c *cachingAdapter) SplitOrganizationNames(ctx context.Context, blob string) ([]model.OrgName, error) {
	c.mu.Lock()
	if cached, ok := c.splitCache[blob]; ok {
		c.mu.Unlock()
		return cloneOrgNames(cached), nil
	}
	c.mu.Unlock()

	names, err := c.inner.SplitOrganizationNames(ctx, blob)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.splitCache[blob] = cloneOrgNames(names)
	c.mu.Unlock()
	return names, nil
}

func (c *cachingAdapter) CleanOrganizationNames(ctx context.Context, names []model.OrgName) ([]model.OrgName, error) {
	return c.inner.CleanOrganizationNames(ctx, names)
}

func cloneOrgNames(names []model.OrgName) []model.OrgName {
	out := make([]model.OrgName, len(names))
	copy(out, names)
	return out
}

// knownSuffixes recognizes common legal-entity suffixes when heuristically
// splitting a name into (name, suffix).
var knownSuffixes = []string{"LLC", "LLP", "L.L.C.", "Inc.", "Inc", "Corp.", "Corp", "Co.", "Co", "Ltd.", "Ltd", "P.C.", "PC"}

var splitOnConjunction = regexp.MustCompile(`(?i)\s*(?:,\s*|\s+and\s+|\s*;\s*|\s*&\s*)\s*`)

// HeuristicAdapter is a deterministic, network-free Adapter: it splits
// blobs on common conjunctions/punctuation and strips a trailing known
// suffix from each resulting name. It never errors. Used whenever no
// DeepInfra API key is configured, and directly in unit tests.
type HeuristicAdapter struct{}

func (HeuristicAdapter) SplitOrganizationNames(_ context.Context, blob string) ([]model.OrgName, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, nil
	}

	parts := splitOnConjunction.Split(blob, -1)
	names := make([]model.OrgName, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, splitSuffix(p))
	}
	return names, nil
}

func (HeuristicAdapter) CleanOrganizationNames(_ context.Context, names []model.OrgName) ([]model.OrgName, error) {
	cleaned := make([]model.OrgName, 0, len(names))
	for _, n := range names {
		merged := splitSuffix(strings.TrimSpace(n.Name))
		if merged.Suffix == "" {
			merged.Suffix = n.Suffix
		}
		merged.ObjectUUID = n.ObjectUUID
		cleaned = append(cleaned, merged)
	}
	return cleaned, nil
}

func splitSuffix(name string) model.OrgName {
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(name, suffix) {
			trimmed := strings.TrimSpace(strings.TrimSuffix(name, suffix))
			trimmed = strings.TrimSuffix(trimmed, ",")
			trimmed = strings.TrimSpace(trimmed)
			if trimmed != "" {
				return model.OrgName{Name: trimmed, Suffix: suffix}
			}
		}
	}
	return model.OrgName{Name: name}
}
