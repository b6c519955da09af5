package blobstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress_ObjectKeys(t *testing.T) {
	require.Equal(t, "raw/dockets/us_ny_psc/C-1.json", RawDocketAddress{Jurisdiction: "us_ny_psc", DocketGovid: "C-1"}.ObjectKey())
	require.Equal(t, "processed/dockets/us_ny_psc/C-1.json", ProcessedDocketAddress{Jurisdiction: "us_ny_psc", DocketGovid: "C-1"}.ObjectKey())
	require.Equal(t, "raw/metadata/abc123.json", RawAttachmentMetadataAddress{Hash: "abc123"}.ObjectKey())
	require.Equal(t, "raw/file/abc123", RawFileAddress{Hash: "abc123"}.ObjectKey())
	require.Equal(t, "indexes/global/attachment_urls", AttachmentIndexAddress{}.ObjectKey())
}

func TestPrefixHelpers(t *testing.T) {
	require.Equal(t, "raw/dockets/us_ny_psc/", RawDocketsPrefix("us_ny_psc"))
	require.Equal(t, "processed/dockets/us_ny_psc/", ProcessedDocketsPrefix("us_ny_psc"))
	require.Equal(t, "raw/metadata/", RawMetadataPrefix)
}
