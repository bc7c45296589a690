package donedone

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// record is a response type with an explicit JSON key mapping. The struct
// tags name the keys; requiredKeys lists the ones that must be present.
type record interface {
	requiredKeys() []string
}

func decodeObject[T record](body []byte) (T, error) {
	var out T

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return out, fmt.Errorf("donedone: decode response: %w", err)
	}
	if err := checkKeys(raw, out.requiredKeys()); err != nil {
		return out, fmt.Errorf("donedone: decode response: %w", err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("donedone: decode response: %w", err)
	}
	return out, nil
}

func decodeList[T record](body []byte) ([]T, error) {
	var raws []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("donedone: decode response: %w", err)
	}

	var zero T
	for i, raw := range raws {
		if err := checkKeys(raw, zero.requiredKeys()); err != nil {
			return nil, fmt.Errorf("donedone: decode response: item %d: %w", i, err)
		}
	}

	out := make([]T, 0, len(raws))
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("donedone: decode response: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// checkKeys matches keys case-insensitively, the same way encoding/json
// binds them to struct tags.
func checkKeys(raw map[string]json.RawMessage, required []string) error {
	if raw == nil {
		return errors.New("expected object")
	}
	for _, key := range required {
		if !hasKey(raw, key) {
			return fmt.Errorf("missing field %q", key)
		}
	}
	return nil
}

func hasKey(raw map[string]json.RawMessage, key string) bool {
	if _, ok := raw[key]; ok {
		return true
	}
	for candidate := range raw {
		if strings.EqualFold(candidate, key) {
			return true
		}
	}
	return false
}
