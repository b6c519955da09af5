package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openscrapers/docketproc/internal/model"
)

func TestHeuristicAdapter_SplitOrganizationNames(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want []model.OrgName
	}{
		{
			name: "empty blob",
			blob: "",
			want: nil,
		},
		{
			name: "single name with suffix",
			blob: "Acme Corp LLC",
			want: []model.OrgName{{Name: "Acme Corp", Suffix: "LLC"}},
		},
		{
			name: "conjunction split",
			blob: "Acme Corp LLC and Jane Doe",
			want: []model.OrgName{
				{Name: "Acme Corp", Suffix: "LLC"},
				{Name: "Jane Doe"},
			},
		},
		{
			name: "comma and ampersand separated",
			blob: "Foo Inc, Bar & Baz Ltd",
			want: []model.OrgName{
				{Name: "Foo", Suffix: "Inc"},
				{Name: "Bar"},
				{Name: "Baz", Suffix: "Ltd"},
			},
		},
	}

	var adapter HeuristicAdapter
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := adapter.SplitOrganizationNames(context.Background(), c.blob)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestHeuristicAdapter_CleanOrganizationNames(t *testing.T) {
	var adapter HeuristicAdapter
	in := []model.OrgName{
		{Name: "  Acme Corp LLC  "},
		{Name: "Jane Doe", Suffix: "keep-me"},
	}

	got, err := adapter.CleanOrganizationNames(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", got[0].Name)
	require.Equal(t, "LLC", got[0].Suffix)
	require.Equal(t, "Jane Doe", got[1].Name)
	require.Equal(t, "keep-me", got[1].Suffix)
}

func TestWithCache_MemoizesSplitResults(t *testing.T) {
	counter := &countingAdapter{}
	cached := WithCache(counter)

	names1, err := cached.SplitOrganizationNames(context.Background(), "Acme Corp LLC")
	require.NoError(t, err)
	names2, err := cached.SplitOrganizationNames(context.Background(), "Acme Corp LLC")
	require.NoError(t, err)

	require.Equal(t, names1, names2)
	require.Equal(t, 1, counter.splitCalls)
}

func TestWithCache_DistinctBlobsNotMemoizedTogether(t *testing.T) {
	counter := &countingAdapter{}
	cached := WithCache(counter)

	_, err := cached.SplitOrganizationNames(context.Background(), "Acme Corp LLC")
	require.NoError(t, err)
	_, err = cached.SplitOrganizationNames(context.Background(), "Other Corp LLC")
	require.NoError(t, err)

	require.Equal(t, 2, counter.splitCalls)
}

// countingAdapter wraps HeuristicAdapter and tracks how many times the
// underlying split was actually invoked, to assert cache behavior.
type countingAdapter struct {
	HeuristicAdapter
	splitCalls int
}

func (c *countingAdapter) SplitOrganizationNames(ctx context.Context, blob string) ([]model.OrgName, error) {
	c.splitCalls++
	return c.HeuristicAdapter.SplitOrganizationNames(ctx, blob)
}
