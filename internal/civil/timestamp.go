package civil

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a wall-clock time stored as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	t time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.Truncate(time.Second)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{t: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("civil: invalid timestamp %q", s)
}

func (ts Timestamp) Time() time.Time { return ts.t }
func (ts Timestamp) Date() Date      { return Today(ts.t) }
func (ts Timestamp) IsZero() bool    { return ts.t.IsZero() }
func (ts Timestamp) String() string  { return ts.t.Format(TimestampLayout) }

func (ts *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = Timestamp{}
		return nil
	case time.Time:
		*ts = Timestamp{t: v}
		return nil
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	default:
		return fmt.Errorf("civil: cannot scan %T into Timestamp", src)
	}
}

func (ts Timestamp) Value() (driver.Value, error) {
	return ts.String(), nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
