package dismissal

import "strings"

// Normalize converts a stored option value into an ordered, duplicate free
// list of notice ids. Absent or non-list values yield an empty set and list
// entries that are not strings are dropped.
func Normalize(raw any) []string {
	var items []any
	switch value := raw.(type) {
	case []string:
		items = make([]any, 0, len(value))
		for _, id := range value {
			items = append(items, id)
		}
	case []any:
		items = value
	default:
		return []string{}
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id, ok := item.(string)
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Contains reports whether id is present in ids.
func Contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
