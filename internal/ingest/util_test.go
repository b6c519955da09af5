package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortedUnion_DeduplicatesAndSorts(t *testing.T) {
	got := sortedUnion([]string{"b", "a"}, []string{"a", "c"})
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSortedUnion_SkipsEmptyStrings(t *testing.T) {
	got := sortedUnion([]string{"", "a"}, []string{"", "b"})
	require.Equal(t, []string{"a", "b"}, got)
}

func TestSortedUnion_NilInputsProduceNil(t *testing.T) {
	got := sortedUnion(nil, nil)
	require.Nil(t, got)
}
