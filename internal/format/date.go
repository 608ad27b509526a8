// Package format renders dates, money and invoice numbers for display.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dateLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	isoDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})(?:[T ](\d{2}):(\d{2}))?`)
)

// DateAU renders t as dd-mm-yyyy.
func DateAU(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

// DateTimeAU renders t as dd-mm-yyyy hh:mm.
func DateTimeAU(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006 15:04")
}

// DateStringAU parses an ISO-ish date and renders it as dd-mm-yyyy. Strings
// that do not parse are matched against a yyyy-mm-dd pattern; anything else
// is returned unchanged.
func DateStringAU(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, ok := parse(value); ok {
		return DateAU(t)
	}
	if m := isoDateRe.FindStringSubmatch(value); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	}
	return value
}

// DateTimeStringAU is DateStringAU with the time of day appended.
func DateTimeStringAU(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, ok := parse(value); ok {
		return DateTimeAU(t)
	}
	if m := isoDateRe.FindStringSubmatch(value); m != nil {
		hh, mm := m[4], m[5]
		if hh == "" {
			hh, mm = "00", "00"
		}
		return fmt.Sprintf("%s-%s-%s %s:%s", m[3], m[2], m[1], hh, mm)
	}
	return value
}

func parse(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
