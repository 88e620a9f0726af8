package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Month identifies one ledger period as a YYYYMM integer, e.g. 202601 for
// January 2026. The integer encoding gives a total order for free and
// round-trips losslessly through the 6-digit string used at the API boundary.
type Month int

var ErrInvalidMonthKey = errors.New("invalid month key")

// NewMonth builds a Month from a year and a calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month(year*100 + int(month))
}

// ParseMonth parses a 6-digit YYYYMM string.
func ParseMonth(s string) (Month, error) {
	if len(s) != 6 {
		return 0, ErrInvalidMonthKey
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidMonthKey
	}
	m := Month(n)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

// Year returns the calendar year.
func (m Month) Year() int {
	return int(m) / 100
}

// Month returns the calendar month.
func (m Month) Month() time.Month {
	return time.Month(int(m) % 100)
}

func (m Month) Validate() error {
	year := m.Year()
	mm := int(m) % 100
	if year < 1970 || year > 9999 {
		return ErrInvalidMonthKey
	}
	if mm < 1 || mm > 12 {
		return ErrInvalidMonthKey
	}
	return nil
}

// String formats the month as the 6-digit YYYYMM key.
func (m Month) String() string {
	return fmt.Sprintf("%04d%02d", m.Year(), int(m)%100)
}

// MarshalJSON renders the month as its 6-digit string key.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a quoted 6-digit YYYYMM key.
func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Date returns the first day of the month in UTC.
func (m Month) Date() time.Time {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month, rolling over the year boundary.
func (m Month) Next() Month {
	if m.Month() == time.December {
		return NewMonth(m.Year()+1, time.January)
	}
	return NewMonth(m.Year(), m.Month()+1)
}

// Prev returns the preceding month, rolling over the year boundary.
func (m Month) Prev() Month {
	if m.Month() == time.January {
		return NewMonth(m.Year()-1, time.December)
	}
	return NewMonth(m.Year(), m.Month()-1)
}
