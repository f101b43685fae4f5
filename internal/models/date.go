package models

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. It persists as a DATE column via datatypes.Date
// and renders as a plain "YYYY-MM-DD" string in JSON, so values round-trip
// through the API unchanged regardless of what the driver hands back.
type Date struct {
	datatypes.Date
}

// ParseDate builds a Date from a "YYYY-MM-DD" string. The day is anchored
// at local midnight so the SQL driver (configured with loc=Local) writes and
// reads it back on the same calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{datatypes.Date(t)}, nil
}

func (d Date) String() string {
	return time.Time(d.Date).Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid date %s", b)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
