package fields

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/i18n"
)

var (
	isoDateTime = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})[T ](\d{1,2}):(\d{1,2})` +
		`(?::(\d{1,2})(?:\.(\d{1,6})\d{0,6})?)?` +
		`(Z|[+-]\d{2}(?::?\d{2})?)?$`)
	isoDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// DateTimeField produces time.Time values.
type DateTimeField struct {
	goschema.FieldCore
	// Layout is a time.Parse layout; empty means the ISO 8601 profile.
	Layout   string
	dateOnly bool
}

// DateTime parses YYYY-MM-DD[T| ]HH:MM[:SS[.ffffff]][Z|±HH[:MM]]. A zone
// offset yields a fixed zone; without one the value is in UTC. Fractional
// digits past the sixth are dropped.
func DateTime(opts ...Option) *DateTimeField {
	o := build(opts)
	return &DateTimeField{FieldCore: o.core(), Layout: o.format}
}

// Date parses YYYY-MM-DD into midnight UTC.
func Date(opts ...Option) *DateTimeField {
	o := build(opts)
	return &DateTimeField{FieldCore: o.core(), Layout: o.format, dateOnly: true}
}

// DateOnly reports whether the field was built by Date.
func (f *DateTimeField) DateOnly() bool { return f.dateOnly }

func (f *DateTimeField) Coerce(_ context.Context, value any, _ any) (any, error) {
	if t, ok := value.(time.Time); ok {
		if f.dateOnly {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		return t, nil
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return nil, f.invalid(value, nil)
	}
	var (
		t   time.Time
		err error
	)
	switch {
	case f.Layout != "":
		t, err = time.Parse(f.Layout, s)
		if err == nil && f.dateOnly {
			y, m, d := t.Date()
			t = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	case f.dateOnly:
		t, err = parseISODate(s)
	default:
		t, err = parseISODateTime(s)
	}
	if err != nil {
		return nil, f.invalid(s, err)
	}
	return t, nil
}

func (f *DateTimeField) Clone() goschema.Field {
	return &DateTimeField{FieldCore: f.CloneCore(), Layout: f.Layout, dateOnly: f.dateOnly}
}

func (f *DateTimeField) invalid(value any, cause error) *goschema.Error {
	kind := "datetime"
	if f.dateOnly {
		kind = "date"
	}
	params := map[string]any{"expected": kind, "input": value}
	return &goschema.Error{
		Kind:   goschema.CodeInvalidType,
		Detail: i18n.T("datetime", map[string]string{"expected": kind}),
		Params: params,
		Cause:  cause,
	}
}

func parseISODateTime(s string) (time.Time, error) {
	m := isoDateTime.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not an ISO 8601 datetime: %q", s)
	}
	n := atoiAll(m[1], m[2], m[3], m[4], m[5], m[6])
	nsec := 0
	if m[7] != "" {
		frac, _ := strconv.Atoi((m[7] + "00000")[:6])
		nsec = frac * 1000
	}
	loc := time.UTC
	if tz := m[8]; tz != "" && tz != "Z" {
		mins := 0
		if len(tz) > 3 {
			mins, _ = strconv.Atoi(tz[len(tz)-2:])
		}
		hours, _ := strconv.Atoi(tz[1:3])
		offset := hours*60 + mins
		if tz[0] == '-' {
			offset = -offset
		}
		if offset <= -24*60 || offset >= 24*60 {
			return time.Time{}, fmt.Errorf("zone offset out of range: %q", tz)
		}
		loc = fixedZone(offset)
	}
	return civil(n[0], n[1], n[2], n[3], n[4], n[5], nsec, loc)
}

func parseISODate(s string) (time.Time, error) {
	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not an ISO 8601 date: %q", s)
	}
	n := atoiAll(m[1], m[2], m[3])
	return civil(n[0], n[1], n[2], 0, 0, 0, 0, time.UTC)
}

// civil builds a time from its components, rejecting values that time.Date
// would normalize (month 13, February 30, hour 24).
func civil(year, month, day, hour, minute, sec, nsec int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	y, mo, d := t.Date()
	if y != year || int(mo) != month || d != day || t.Hour() != hour || t.Minute() != minute || t.Second() != sec {
		return time.Time{}, fmt.Errorf("date or time component out of range")
	}
	return t, nil
}

// atoiAll converts regexp digit groups; empty groups become zero.
func atoiAll(parts ...string) []int {
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

func fixedZone(minutes int) *time.Location {
	sign := "+"
	abs := minutes
	if minutes < 0 {
		sign, abs = "-", -minutes
	}
	return time.FixedZone(fmt.Sprintf("%s%02d%02d", sign, abs/60, abs%60), minutes*60)
}
