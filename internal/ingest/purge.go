package ingest

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openscrapers/docketproc/internal/apperr"
)

// purgeTables lists every table a purge must truncate, in the order spec.md
// §4.4.3 names them: the five entity tables plus the four relation tables.
// CASCADE handles the dependency ordering, so this list is documentation
// as much as mechanism.
var purgeTables = []string{
	"dockets", "fillings", "attachments", "humans", "organizations",
	"docket_petitioned_by_org", "individual_offical_party_to_docket",
	"fillings_on_behalf_of_org_relation", "fillings_filed_by_individual",
}

// PurgeAll truncates every table in schema inside one transaction with
// statement_timeout disabled for that transaction only (spec.md §4.4.3).
func (i *Ingester) PurgeAll(ctx context.Context, schema string) error {
	return i.withSchema(ctx, schema, func(tx *gorm.DB) error {
		if err := tx.Exec("SET LOCAL statement_timeout = 0").Error; err != nil {
			return apperr.Wrap(apperr.Transport, fmt.Errorf("purge: set statement_timeout: %w", err))
		}

		stmt := "TRUNCATE TABLE " + joinTables(purgeTables) + " CASCADE"
		if err := tx.Exec(stmt).Error; err != nil {
			return apperr.Wrap(apperr.Transport, fmt.Errorf("purge: truncate: %w", err))
		}
		return nil
	})
}

func joinTables(tables []string) string {
	out := ""
	for i, t := range tables {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
