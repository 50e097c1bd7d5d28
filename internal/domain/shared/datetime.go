package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalDateTimeLayout is the seconds part of the wire timestamp format
// dd-MM-yyyy__HH:mm:ss:SSSSSS. The microsecond fraction follows a colon,
// which time.Parse cannot express, so it is handled separately.
const LocalDateTimeLayout = "02-01-2006__15:04:05"

// NormalizeTime drops the monotonic reading and zone and truncates to
// microseconds, so values round-trip through the wire format and the store
// and compare equal with ==.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatLocalDateTime renders t as dd-MM-yyyy__HH:mm:ss:SSSSSS in UTC
func FormatLocalDateTime(t time.Time) string {
	t = NormalizeTime(t)
	return fmt.Sprintf("%s:%06d", t.Format(LocalDateTimeLayout), t.Nanosecond()/int(time.Microsecond))
}

// ParseLocalDateTime accepts dd-MM-yyyy__HH:mm:ss:SSSSSS, the same without the
// fraction, or RFC 3339.
func ParseLocalDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, NewValidationError("dateTime", "is empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return NormalizeTime(t), nil
	}

	secs, frac := raw, ""
	if len(raw) > len(LocalDateTimeLayout) {
		secs, frac = raw[:len(LocalDateTimeLayout)], raw[len(LocalDateTimeLayout):]
	}
	t, err := time.ParseInLocation(LocalDateTimeLayout, secs, time.UTC)
	if err != nil {
		return time.Time{}, NewValidationError("dateTime", fmt.Sprintf("%q does not match dd-MM-yyyy__HH:mm:ss:SSSSSS", raw))
	}
	if frac != "" {
		if frac[0] != ':' || len(frac) < 2 || len(frac) > 7 {
			return time.Time{}, NewValidationError("dateTime", fmt.Sprintf("%q has a malformed fraction", raw))
		}
		digits := frac[1:]
		micros, err := strconv.Atoi(digits + strings.Repeat("0", 6-len(digits)))
		if err != nil || micros < 0 {
			return time.Time{}, NewValidationError("dateTime", fmt.Sprintf("%q has a malformed fraction", raw))
		}
		t = t.Add(time.Duration(micros) * time.Microsecond)
	}
	return NormalizeTime(t), nil
}
