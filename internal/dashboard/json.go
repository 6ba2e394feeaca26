package dashboard

import "github.com/goccy/go-json"

// mustMarshal renders v as JSON, falling back to a JSON-encoded error
// message on the (unexpected, since every type served here is a plain
// struct) failure case.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"failed to encode response"}`)
	}
	return data
}
