package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessedGenericDocket_UnmarshalJSON_ListForm(t *testing.T) {
	raw := []byte(`{
		"case_govid": "C-1",
		"filings": [
			{"filling_govid": "f2", "index_in_docket": 1},
			{"filling_govid": "f1", "index_in_docket": 0}
		]
	}`)

	var d ProcessedGenericDocket
	require.NoError(t, json.Unmarshal(raw, &d))
	require.Len(t, d.Filings, 2)
	require.Equal(t, "f1", d.Filings[0].FillingGovid)
	require.Equal(t, "f2", d.Filings[1].FillingGovid)
}

func TestProcessedGenericDocket_UnmarshalJSON_MapForm(t *testing.T) {
	raw := []byte(`{
		"case_govid": "C-1",
		"filings": {
			"zzz": {"filling_govid": "f2", "index_in_docket": 1},
			"aaa": {"filling_govid": "f1", "index_in_docket": 0}
		}
	}`)

	var d ProcessedGenericDocket
	require.NoError(t, json.Unmarshal(raw, &d))
	require.Len(t, d.Filings, 2)
	require.Equal(t, "f1", d.Filings[0].FillingGovid)
	require.Equal(t, "f2", d.Filings[1].FillingGovid)
}

func TestProcessedGenericDocket_UnmarshalJSON_ListAndMapFormConverge(t *testing.T) {
	list := []byte(`{"case_govid": "C-1", "filings": [
		{"filling_govid": "f1", "index_in_docket": 0},
		{"filling_govid": "f2", "index_in_docket": 1}
	]}`)
	mapped := []byte(`{"case_govid": "C-1", "filings": {
		"b": {"filling_govid": "f2", "index_in_docket": 1},
		"a": {"filling_govid": "f1", "index_in_docket": 0}
	}}`)

	var fromList, fromMap ProcessedGenericDocket
	require.NoError(t, json.Unmarshal(list, &fromList))
	require.NoError(t, json.Unmarshal(mapped, &fromMap))
	require.Equal(t, fromList.Filings, fromMap.Filings)
}

func TestProcessedGenericDocket_UnmarshalJSON_NullFilings(t *testing.T) {
	var d ProcessedGenericDocket
	require.NoError(t, json.Unmarshal([]byte(`{"case_govid": "C-1", "filings": null}`), &d))
	require.Nil(t, d.Filings)
}

func TestProcessedGenericFiling_UnmarshalJSON_MapForm(t *testing.T) {
	raw := []byte(`{
		"filling_govid": "f1",
		"attachments": {
			"z": {"attachment_govid": "a2", "index_in_filling": 1},
			"a": {"attachment_govid": "a1", "index_in_filling": 0}
		}
	}`)

	var f ProcessedGenericFiling
	require.NoError(t, json.Unmarshal(raw, &f))
	require.Len(t, f.Attachments, 2)
	require.Equal(t, "a1", f.Attachments[0].AttachmentGovid)
	require.Equal(t, "a2", f.Attachments[1].AttachmentGovid)
}

func TestUnmarshalOrderedSlice_EmptyAndNull(t *testing.T) {
	list, err := unmarshalOrderedSlice[ProcessedGenericAttachment](nil, func(a *ProcessedGenericAttachment) int { return a.IndexInFilling })
	require.NoError(t, err)
	require.Nil(t, list)

	list, err = unmarshalOrderedSlice[ProcessedGenericAttachment](json.RawMessage(`null`), func(a *ProcessedGenericAttachment) int { return a.IndexInFilling })
	require.NoError(t, err)
	require.Nil(t, list)
}
