// Package metrics exposes the operational Prometheus counters the service
// tracks across the processing pipeline: per-docket outcomes, ingest
// retries, and attachment-index rebuilds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocketsProcessed counts docket actions by outcome ("success" or
	// "error"), labeled by jurisdiction.
	DocketsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docketproc_dockets_processed_total",
		Help: "Total docket actions run by the orchestrator, by jurisdiction and outcome.",
	}, []string{"jurisdiction", "outcome"})

	// IngestRetries counts retry attempts taken by the relational ingester.
	IngestRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docketproc_ingest_retries_total",
		Help: "Total ingest retry attempts, by jurisdiction.",
	}, []string{"jurisdiction"})

	// AttachmentIndexRebuilds counts full attachment-URL index rebuilds.
	AttachmentIndexRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docketproc_attachment_index_rebuilds_total",
		Help: "Total attachment-URL index rebuilds triggered (initial load or explicit regenerate).",
	})

	// BlobStoreOperations counts blob store calls by operation and outcome.
	BlobStoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docketproc_blobstore_operations_total",
		Help: "Total blob store operations, by operation and outcome.",
	}, []string{"operation", "outcome"})
)
