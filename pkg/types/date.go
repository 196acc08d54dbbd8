package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day stored in a DATE column, kept as its YYYY-MM-DD
// form. Postgres hands DATE values back as time.Time; Scan normalizes every
// representation to the same canonical string so day-bucket comparisons stay
// exact across write and read.
type Date string

// DateOf buckets a moment into its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func (d Date) String() string { return string(d) }

func (d Date) IsZero() bool { return d == "" }

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateOf(v)
	case string:
		*d = normalizeDate(v)
	case []byte:
		*d = normalizeDate(string(v))
	default:
		return fmt.Errorf("date: cannot scan %T", value)
	}
	return nil
}

func normalizeDate(s string) Date {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t)
	}
	if len(s) > len(dateLayout) {
		if t, err := time.Parse("2006-01-02 15:04:05Z07:00", s); err == nil {
			return DateOf(t)
		}
		return Date(s[:len(dateLayout)])
	}
	return Date(s)
}
