package schema

import (
	"fmt"
	"strings"
	"time"
)

// DayFormat is the wire and storage representation of a calendar day.
const DayFormat = "2006-01-02"

// Day is a calendar day without a time component. It marshals to and from
// the YYYY-MM-DD form used by the API and the store.
type Day struct {
	time.Time
}

// NewDay builds a Day from a time, truncating to midnight UTC.
func NewDay(t time.Time) Day {
	return Day{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Day{t}, nil
}

// String returns the YYYY-MM-DD form.
func (d Day) String() string {
	return d.Format(DayFormat)
}

// AddDays returns the day n calendar days later.
func (d Day) AddDays(n int) Day {
	return Day{d.AddDate(0, 0, n)}
}

// MarshalJSON encodes the day as a quoted YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ForecastDates returns the horizon consecutive calendar days immediately
// following last. The result is deterministic given last and horizon.
func ForecastDates(last Day, horizon int) []Day {
	dates := make([]Day, horizon)
	for i := range horizon {
		dates[i] = last.AddDays(i + 1)
	}
	return dates
}
