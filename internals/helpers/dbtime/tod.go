// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod = jam dalam sehari (kolom TIME), tanpa tanggal & zona.
type Tod struct{ time.Time }

// At: bikin Tod dari jam & menit.
func At(hour, minute int) Tod {
	return Tod{Time: time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)}
}

// Parse: "HH:MM" atau "HH:MM:SS"
func Parse(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: invalid time of day %q", s)
	}
	t.Time = tt
	return nil
}

func (t Tod) String() string { return t.Format("15:04") }

// Before membandingkan jam saja.
func (t Tod) Before(o Tod) bool { return t.minutes() < o.minutes() }

func (t Tod) minutes() int { return t.Hour()*60 + t.Minute() }

// Scan: Postgres TIME datang sebagai time.Time atau string, sqlite sebagai string.
func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = At(x.Hour(), x.Minute())
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t Tod) Value() (driver.Value, error) {
	return t.Format("15:04:05"), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
