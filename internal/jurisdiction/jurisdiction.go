// Package jurisdiction derives the Postgres schema identity used to
// partition docket data by regulatory jurisdiction (spec.md §2, §4.4).
// Each (country, state, jurisdiction) triple maps to exactly one schema;
// the mapping is deterministic and reused by every layer that needs to
// address a jurisdiction's tables (the ingester, the orchestrator, and the
// purge operation).
package jurisdiction

import (
	"fmt"
	"regexp"
	"strings"
)

// FixedJurisdiction identifies a single regulatory body: a country, an
// optional state/province, and a jurisdiction name (e.g. a specific
// commission). It is "fixed" in the sense that spec.md treats the triple as
// an opaque, closed identity — it is never itself inferred from docket
// content.
type FixedJurisdiction struct {
	Country      string `json:"country"`
	State        string `json:"state,omitempty"`
	Jurisdiction string `json:"jurisdiction"`
}

var schemaUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// SchemaName derives the Postgres schema name backing this jurisdiction's
// tables. Components are lowercased, non-alphanumeric runs collapsed to a
// single underscore, and joined with "_" — state is omitted from the name
// when empty so country-level jurisdictions (e.g. federal bodies) get a
// shorter name.
func (j FixedJurisdiction) SchemaName() string {
	parts := []string{j.Country}
	if j.State != "" {
		parts = append(parts, j.State)
	}
	parts = append(parts, j.Jurisdiction)

	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		p = schemaUnsafe.ReplaceAllString(p, "_")
		parts[i] = strings.Trim(p, "_")
	}
	return strings.Join(parts, "_")
}

// String renders a human-readable identifier, used in logs and error
// messages — not the schema name.
func (j FixedJurisdiction) String() string {
	if j.State != "" {
		return fmt.Sprintf("%s/%s/%s", j.Country, j.State, j.Jurisdiction)
	}
	return fmt.Sprintf("%s/%s", j.Country, j.Jurisdiction)
}

// Equal reports whether two jurisdictions identify the same schema.
func (j FixedJurisdiction) Equal(other FixedJurisdiction) bool {
	return j.SchemaName() == other.SchemaName()
}
