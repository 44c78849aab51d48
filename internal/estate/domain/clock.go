package domain

import (
	"math"
	"time"
)

// pricePrecision is the number of decimal digits prices are compared at.
const pricePrecision = 2

// Clock supplies the current time; today's date anchors offer deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after the date of t.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole number of days from the date of from to the
// date of to; negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(math.Round(DateOf(to).Sub(DateOf(from)).Hours() / 24))
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}

func floatIsZero(v float64, digits int) bool {
	return roundTo(v, digits) == 0
}

// floatCompare returns -1, 0 or 1 after rounding both operands to digits.
func floatCompare(a, b float64, digits int) int {
	delta := roundTo(a, digits) - roundTo(b, digits)
	if floatIsZero(delta, digits) {
		return 0
	}
	if delta < 0 {
		return -1
	}
	return 1
}
