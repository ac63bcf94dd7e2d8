package models

import (
	"encoding/json"
)

// splitExtra decodes data into target and returns every key target will not
// write back on marshal: unknown keys, and known keys holding a zero value
// that omitempty would drop.
func splitExtra(data []byte, target any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	emitted, err := json.Marshal(target)
	if err != nil {
		return nil, err
	}
	var covered map[string]json.RawMessage
	if err := json.Unmarshal(emitted, &covered); err != nil {
		return nil, err
	}
	for key := range covered {
		delete(all, key)
	}

	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra marshals v and adds the extra keys that v does not already set.
func mergeExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for key, raw := range extra {
		if _, exists := all[key]; !exists {
			all[key] = raw
		}
	}
	return json.Marshal(all)
}
