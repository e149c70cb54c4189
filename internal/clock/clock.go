// Package clock renders the service's wall-clock stamps.
//
// Every stamp is taken in the fixed GMT+09:00 zone and rendered as
// "YYYY-MM-DD HH:MM:SS.mmm": the local date and local time joined by a single
// space, always with millisecond precision.
package clock

import "time"

// Layout is the stamp layout in Go reference-time notation.
const Layout = "2006-01-02 15:04:05.000"

// Zone is UTC+09:00 with no daylight saving.
var Zone = time.FixedZone("GMT+09:00", 9*60*60)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the host clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. Useful in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Format renders t in Zone using Layout.
func Format(t time.Time) string {
	return t.In(Zone).Format(Layout)
}

// Stamp returns the current instant of c, formatted.
func Stamp(c Clock) string {
	return Format(c.Now())
}
