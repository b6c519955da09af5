package orchestrator

import (
	"context"
	"fmt"

	"github.com/openscrapers/docketproc/internal/blobstore"
	"github.com/openscrapers/docketproc/internal/jurisdiction"
)

// PurgeBlobs deletes every raw and processed docket blob for j (spec.md §6
// scenario 5: both prefixes empty afterward, other jurisdictions
// unaffected). It does not touch the relational schema — callers that also
// want the relational data gone must call ingest.Ingester.PurgeAll
// separately, since the two stores are independent systems of record.
func (o *Orchestrator) PurgeBlobs(ctx context.Context, j jurisdiction.FixedJurisdiction) error {
	schema := j.SchemaName()

	if err := o.store.DeleteRecursive(ctx, blobstore.RawDocketsPrefix(schema)); err != nil {
		return fmt.Errorf("orchestrator: purge raw dockets for %s: %w", j, err)
	}
	if err := o.store.DeleteRecursive(ctx, blobstore.ProcessedDocketsPrefix(schema)); err != nil {
		return fmt.Errorf("orchestrator: purge processed dockets for %s: %w", j, err)
	}
	return nil
}
