package jurisdiction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaName(t *testing.T) {
	cases := []struct {
		name string
		j    FixedJurisdiction
		want string
	}{
		{"state jurisdiction", FixedJurisdiction{Country: "us", State: "ny", Jurisdiction: "psc"}, "us_ny_psc"},
		{"no state", FixedJurisdiction{Country: "us", Jurisdiction: "fcc"}, "us_fcc"},
		{"mixed case and spaces collapse", FixedJurisdiction{Country: "US", State: " New York ", Jurisdiction: "Public Service Commission"}, "us_new_york_public_service_commission"},
		{"punctuation collapses to underscore", FixedJurisdiction{Country: "us", Jurisdiction: "f.c.c."}, "us_f_c_c"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.j.SchemaName())
		})
	}
}

func TestFixedJurisdiction_Equal(t *testing.T) {
	a := FixedJurisdiction{Country: "us", State: "ny", Jurisdiction: "psc"}
	b := FixedJurisdiction{Country: "US", State: "NY", Jurisdiction: "PSC"}
	c := FixedJurisdiction{Country: "us", State: "ca", Jurisdiction: "psc"}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestFixedJurisdiction_String(t *testing.T) {
	require.Equal(t, "us/ny/psc", FixedJurisdiction{Country: "us", State: "ny", Jurisdiction: "psc"}.String())
	require.Equal(t, "us/fcc", FixedJurisdiction{Country: "us", Jurisdiction: "fcc"}.String())
}
