package utils

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrorInvalidDate = errors.New("date must be in YYYY-MM-DD format")

var spanishDayNames = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// DateString is a calendar date kept as "YYYY-MM-DD".
// It is a naive local date: it is never shifted through UTC or any other zone,
// so it compares and sorts as plain text.
type DateString string

func ParseDateString(s string) (DateString, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrorInvalidDate
	}
	return DateString(s), nil
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) DateString {
	return DateString(t.Format(DateLayout))
}

func (d DateString) String() string {
	return string(d)
}

func (d DateString) IsZero() bool {
	return d == ""
}

// Weekday of the calendar date.
func (d DateString) Weekday() (time.Weekday, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return 0, ErrorInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC).Weekday(), nil
}

// DayName is the Spanish weekday name stored next to each daily record.
func (d DateString) DayName() (string, error) {
	wd, err := d.Weekday()
	if err != nil {
		return "", err
	}
	return spanishDayNames[wd], nil
}

// InRange reports whether d falls within [from, to]; empty bounds are open.
func (d DateString) InRange(from DateString, to DateString) bool {
	if from != "" && d < from {
		return false
	}
	if to != "" && d > to {
		return false
	}
	return true
}
