package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// unmarshalOrderedSlice decodes raw as either a JSON array (the canonical
// form written by the processing engine) or a JSON object keyed by an
// arbitrary string (legacy scraper output that serialized filings/
// attachments as a govid-keyed map rather than a list — spec.md §8 round-trip
// property: "both list-form and map-form inputs ... deserialize to the same
// sequence"). Either way, the result is sorted by indexOf so both forms of
// the same logical data converge to one sequence.
func unmarshalOrderedSlice[T any](raw json.RawMessage, indexOf func(*T) int) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	var list []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
	} else {
		var byKey map[string]T
		if err := json.Unmarshal(raw, &byKey); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		list = make([]T, 0, len(byKey))
		for _, k := range keys {
			list = append(list, byKey[k])
		}
	}

	sort.SliceStable(list, func(i, j int) bool { return indexOf(&list[i]) < indexOf(&list[j]) })
	return list, nil
}

// UnmarshalJSON accepts Filings as either a JSON array or a govid-keyed
// object; the rest of the struct decodes normally.
func (d *ProcessedGenericDocket) UnmarshalJSON(data []byte) error {
	type alias ProcessedGenericDocket
	aux := struct {
		Filings json.RawMessage `json:"filings"`
		*alias
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	filings, err := unmarshalOrderedSlice(aux.Filings, func(f *ProcessedGenericFiling) int { return f.IndexInDocket })
	if err != nil {
		return err
	}
	d.Filings = filings
	return nil
}

// UnmarshalJSON accepts Attachments as either a JSON array or a govid-keyed
// object; the rest of the struct decodes normally.
func (f *ProcessedGenericFiling) UnmarshalJSON(data []byte) error {
	type alias ProcessedGenericFiling
	aux := struct {
		Attachments json.RawMessage `json:"attachments"`
		*alias
	}{alias: (*alias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	attachments, err := unmarshalOrderedSlice(aux.Attachments, func(a *ProcessedGenericAttachment) int { return a.IndexInFilling })
	if err != nil {
		return err
	}
	f.Attachments = attachments
	return nil
}
