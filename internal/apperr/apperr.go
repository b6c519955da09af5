// Package apperr defines the error taxonomy shared across the docket
// processing pipeline's layers: blob store, attachment index, processing
// engine, and relational ingester all wrap their failures in one of these
// sentinels so callers can branch on category with errors.Is rather than on
// layer-specific error types.
package apperr

import "errors"

var (
	// NotFound marks a blob or SQL row absent. Non-fatal: callers downgrade
	// behavior (the attachment index returns no match; the processing engine
	// treats it as an empty cache).
	NotFound = errors.New("apperr: not found")

	// Transport marks an S3/HTTP/Postgres I/O failure. Retryable at the
	// docket level by the ingester; otherwise logged and folded into a
	// batch's error count.
	Transport = errors.New("apperr: transport error")

	// Parse marks a JSON deserialization failure. The offending docket is
	// skipped; callers should log a truncated response body alongside it.
	Parse = errors.New("apperr: parse error")

	// InvariantViolation marks a nil UUID where one was required, or a
	// unique-key collision surviving identity resolution. The ingester
	// deletes the partial row by govid and retries.
	InvariantViolation = errors.New("apperr: invariant violation")
)

// Wrap annotates err with category by returning an error that satisfies
// errors.Is(result, category) while preserving err's message and chain via
// %w-style wrapping semantics.
func Wrap(category error, err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{category: category, err: err}
}

type wrapped struct {
	category error
	err      error
}

func (w *wrapped) Error() string { return w.err.Error() }

func (w *wrapped) Unwrap() []error { return []error{w.category, w.err} }
