package utils

import "encoding/json"

// SerializeTags encodes an ordered tag list for storage. A nil or empty
// list serializes to "[]" so round-trips are exact.
func SerializeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DeserializeTags decodes a stored tag column back into an ordered list.
// Missing, null or malformed values yield an empty (non-nil) slice.
func DeserializeTags(raw string) []string {
	if raw == "" || raw == "null" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}
