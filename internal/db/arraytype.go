package db

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps a Go []string to a Postgres TEXT[] column (and, for the
// SQLite test backend, to the same braced literal stored as plain text —
// the relational schema only ever compares these columns for membership
// in application code, never in SQL, so a uniform on-the-wire
// representation across both drivers is sufficient).
//
// The project depends on jackc/pgx (via gorm.io/driver/postgres) rather
// than lib/pq, so pq.StringArray isn't available; implementing the
// Postgres array literal format directly here avoids adding a second,
// redundant Postgres driver dependency for one column type.
type StringArray []string

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	quoted := make([]string, len(a))
	for i, s := range a {
		quoted[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}", nil
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("db: StringArray.Scan: unsupported type %T", src)
	}

	*a = parsePostgresArrayLiteral(raw)
	return nil
}

// parsePostgresArrayLiteral parses the subset of Postgres array literal
// syntax this package writes: "{}" or {"a","b"} with backslash-escaped
// quotes and backslashes inside each element.
func parsePostgresArrayLiteral(raw string) StringArray {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if raw == "" {
		return StringArray{}
	}

	var out StringArray
	var cur strings.Builder
	inQuotes := false
	escaped := false

	for _, r := range raw {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}

// GormDataType tells GORM's migrator what column type to use for this
// field across dialects that don't understand "text[]" natively.
func (StringArray) GormDataType() string {
	return "text"
}
