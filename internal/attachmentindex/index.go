// Package attachmentindex implements the process-wide URL → RawAttachment
// cache (spec.md §4.2): a lazily-initialized, reader-writer-locked mapping
// rebuilt by scanning the blob store's raw/metadata/ prefix.
package attachmentindex

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/apperr"
	"github.com/openscrapers/docketproc/internal/blobstore"
	"github.com/openscrapers/docketproc/internal/metrics"
	"github.com/openscrapers/docketproc/internal/model"
)

// Index is the attachment-URL lookup cache. Zero value is not usable; build
// one with New. Safe for concurrent use.
type Index struct {
	store  *blobstore.Store
	logger *zap.Logger

	mu     sync.RWMutex
	byURL  map[string]model.RawAttachment
	loaded atomic.Bool
	loadMu sync.Mutex
}

// New returns an Index backed by store. No I/O happens until the first
// Lookup or an explicit Regenerate.
func New(store *blobstore.Store, logger *zap.Logger) *Index {
	return &Index{store: store, logger: logger.Named("attachmentindex")}
}

// Lookup returns the RawAttachment registered for url, if any. The first
// call after process start triggers a load (spec.md §4.2); subsequent calls
// read the cached map without further I/O. A benign double-load under
// concurrent first calls is acceptable — both converge to the same state.
func (idx *Index) Lookup(ctx context.Context, url string) (model.RawAttachment, bool) {
	if !idx.loaded.Load() {
		idx.ensureLoaded(ctx)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	att, ok := idx.byURL[url]
	return att, ok
}

func (idx *Index) ensureLoaded(ctx context.Context) {
	idx.loadMu.Lock()
	defer idx.loadMu.Unlock()

	if idx.loaded.Load() {
		return
	}

	mapping, err := idx.downloadSerialized(ctx)
	if err != nil {
		idx.logger.Warn("attachment index blob unavailable, rebuilding from metadata scan", zap.Error(err))
		metrics.AttachmentIndexRebuilds.Inc()
		mapping, err = idx.scanMetadata(ctx)
		if err != nil {
			// Both download and regenerate failed. Per spec.md §4.2, lookup
			// degrades to returning no match for any URL rather than erroring.
			idx.logger.Error("attachment index rebuild failed, lookups will return no match", zap.Error(err))
			mapping = map[string]model.RawAttachment{}
		}
	}

	idx.mu.Lock()
	idx.byURL = mapping
	idx.mu.Unlock()

	idx.loaded.Store(true)
}

func (idx *Index) downloadSerialized(ctx context.Context) (map[string]model.RawAttachment, error) {
	var serialized []model.RawAttachment
	if err := blobstore.Download(ctx, idx.store, blobstore.AttachmentIndexAddress{}, &serialized); err != nil {
		return nil, err
	}
	return toURLMap(serialized), nil
}

// scanMetadataConcurrency bounds parallel downloads while rebuilding the
// index from raw/metadata/ (spec.md §5).
const scanMetadataConcurrency = 20

func (idx *Index) scanMetadata(ctx context.Context) (map[string]model.RawAttachment, error) {
	stems, err := idx.store.List(ctx, blobstore.RawMetadataPrefix)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, err)
	}

	results := make([]model.RawAttachment, len(stems))
	errs := make([]error, len(stems))

	sem := make(chan struct{}, scanMetadataConcurrency)
	var wg sync.WaitGroup
	for i, stem := range stems {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, stem string) {
			defer wg.Done()
			defer func() { <-sem }()

			hash := stem
			if len(hash) > 5 && hash[len(hash)-5:] == ".json" {
				hash = hash[:len(hash)-5]
			}

			var att model.RawAttachment
			if e := blobstore.Download(ctx, idx.store, blobstore.RawAttachmentMetadataAddress{Hash: hash}, &att); e != nil {
				errs[i] = e
				return
			}
			results[i] = att
		}(i, stem)
	}
	wg.Wait()

	mapping := make(map[string]model.RawAttachment, len(stems))
	for i, att := range results {
		if errs[i] != nil {
			idx.logger.Warn("skipping unreadable attachment metadata entry", zap.String("stem", stems[i]), zap.Error(errs[i]))
			continue
		}
		if att.Attachment.URL != "" {
			mapping[att.Attachment.URL] = att
		}
	}
	return mapping, nil
}

func toURLMap(atts []model.RawAttachment) map[string]model.RawAttachment {
	m := make(map[string]model.RawAttachment, len(atts))
	for _, a := range atts {
		if a.Attachment.URL != "" {
			m[a.Attachment.URL] = a
		}
	}
	return m
}

// Regenerate forces a full rebuild by listing and re-downloading every
// raw/metadata/ entry, then writes the serialized index back to its
// canonical key (spec.md §4.2).
func (idx *Index) Regenerate(ctx context.Context) error {
	metrics.AttachmentIndexRebuilds.Inc()
	mapping, err := idx.scanMetadata(ctx)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	idx.byURL = mapping
	idx.mu.Unlock()
	idx.loaded.Store(true)

	serialized := make([]model.RawAttachment, 0, len(mapping))
	for _, att := range mapping {
		serialized = append(serialized, att)
	}

	if err := blobstore.Upload(ctx, idx.store, blobstore.AttachmentIndexAddress{}, serialized); err != nil {
		return err
	}

	idx.logger.Info("attachment index regenerated", zap.Int("entries", len(mapping)))
	return nil
}
