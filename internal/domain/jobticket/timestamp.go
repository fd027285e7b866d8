package jobticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts tried for values that carry no zone information. Such values are
// interpreted as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// Layouts for values that end in Z or a numeric offset.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

var offsetSuffix = regexp.MustCompile(`[+-]\d{2}:?\d{2}$`)

// Timestamp is a point in time decoded leniently from the payload formats
// produced by the mobile checklist app and the work order backend.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted timestamp formats.
// Surrounding whitespace is ignored.
func ParseTimestamp(s string) (Timestamp, error) {
	value := strings.TrimSpace(s)

	if strings.HasSuffix(value, "Z") || offsetSuffix.MatchString(value) {
		for _, layout := range offsetLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return Timestamp{Time: t}, nil
			}
		}
		return Timestamp{}, fmt.Errorf("Invalid date format: %s", value)
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("Invalid date format: %s", value)
}

// UnmarshalJSON implements json.Unmarshaler. null and empty strings leave
// the timestamp unset.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Invalid date format: %s", string(data))
	}
	if strings.TrimSpace(s) == "" {
		*ts = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. An unset timestamp encodes as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}
