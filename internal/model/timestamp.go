package model

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mph-llm-experiments/fika/internal/clock"
)

// Timestamp is an optional instant that tolerates malformed input. A value
// that cannot be parsed decodes to the zero Timestamp, which every consumer
// treats as absent.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp holds a usable instant.
func (t Timestamp) Valid() bool {
	return !t.IsZero()
}

// Ptr returns nil for an absent timestamp.
func (t Timestamp) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// ParseTimestampString decodes s, returning the zero Timestamp when s is
// empty or malformed.
func ParseTimestampString(s string) Timestamp {
	v, ok := clock.ParseTimestamp(s)
	if !ok {
		return Timestamp{}
	}
	return At(v)
}

// String formats as RFC 3339, or "" when absent.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*t = Timestamp{}
		return nil
	}
	*t = ParseTimestampString(value.Value)
	return nil
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null, numbers and other shapes are treated as absent
		*t = Timestamp{}
		return nil
	}
	*t = ParseTimestampString(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}
