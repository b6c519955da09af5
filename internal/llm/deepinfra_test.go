package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray_StripsSurroundingProse(t *testing.T) {
	in := "Here you go:\n[{\"name\":\"Acme\"}]\nLet me know if that helps."
	require.Equal(t, `[{"name":"Acme"}]`, extractJSONArray(in))
}

func TestExtractJSONArray_NoArrayReturnsEmptyArray(t *testing.T) {
	require.Equal(t, "[]", extractJSONArray("no array here"))
}

func TestExtractJSONArray_AlreadyBareArray(t *testing.T) {
	require.Equal(t, `[]`, extractJSONArray(`[]`))
}
