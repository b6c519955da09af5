package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringArray_ValueScanRoundTrip(t *testing.T) {
	in := StringArray{"a", "b, with comma", `quote "inside"`, `back\slash`}

	val, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(val))
	require.Equal(t, in, out)
}

func TestStringArray_ValueEmpty(t *testing.T) {
	val, err := StringArray{}.Value()
	require.NoError(t, err)
	require.Equal(t, "{}", val)
}

func TestStringArray_ScanEmptyLiteral(t *testing.T) {
	var out StringArray
	require.NoError(t, out.Scan("{}"))
	require.Equal(t, StringArray{}, out)
}

func TestStringArray_ScanNil(t *testing.T) {
	out := StringArray{"stale"}
	require.NoError(t, out.Scan(nil))
	require.Nil(t, out)
}

func TestStringArray_ScanFromBytes(t *testing.T) {
	var out StringArray
	require.NoError(t, out.Scan([]byte(`{"x","y"}`)))
	require.Equal(t, StringArray{"x", "y"}, out)
}

func TestStringArray_GormDataType(t *testing.T) {
	require.Equal(t, "text", StringArray{}.GormDataType())
}
