package docstore

import (
	"encoding/json"
	"strconv"
	"time"
)

// Fields is the string-encoded field map of a document. Numeric fields are
// stored as decimal strings so the store's atomic increment can operate on
// them directly.
type Fields map[string]string

// NewFields returns an empty field map.
func NewFields() Fields {
	return Fields{}
}

func (f Fields) Set(key, value string) Fields {
	f[key] = value
	return f
}

func (f Fields) SetInt(key string, value int64) Fields {
	f[key] = strconv.FormatInt(value, 10)
	return f
}

func (f Fields) SetBool(key string, value bool) Fields {
	f[key] = strconv.FormatBool(value)
	return f
}

// SetTime stores t as RFC 3339 with nanoseconds; the zero time is stored as
// an empty string.
func (f Fields) SetTime(key string, t time.Time) Fields {
	if t.IsZero() {
		f[key] = ""
		return f
	}
	f[key] = t.UTC().Format(time.RFC3339Nano)
	return f
}

// SetStrings stores a string slice as a JSON array.
func (f Fields) SetStrings(key string, values []string) Fields {
	if len(values) == 0 {
		f[key] = "[]"
		return f
	}
	raw, err := json.Marshal(values)
	if err != nil {
		f[key] = "[]"
		return f
	}
	f[key] = string(raw)
	return f
}

func (f Fields) String(key string) string {
	return f[key]
}

func (f Fields) Int(key string) int64 {
	n, err := strconv.ParseInt(f[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (f Fields) Bool(key string) bool {
	b, err := strconv.ParseBool(f[key])
	if err != nil {
		return false
	}
	return b
}

func (f Fields) Time(key string) time.Time {
	raw := f[key]
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (f Fields) Strings(key string) []string {
	raw := f[key]
	if raw == "" || raw == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
