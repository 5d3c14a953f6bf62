// Package sanitize converts untrusted, decoded JSON values into canonical
// record fields.
//
// Every function here is total: it accepts any value produced by
// encoding/json (nil, bool, float64, string, []any, map[string]any) and
// returns either a clean value with ok == true, or ok == false meaning the
// field is absent and the caller falls back to its default. Nothing panics
// and nothing returns an error.
package sanitize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
)

// trendPattern finds the first signed or unsigned decimal number.
var trendPattern = regexp.MustCompile(`[-+]?(\d+\.?\d*|\.\d+)`)

// Date layouts accepted for string dates, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// String returns the trimmed string form of a scalar. Numbers and booleans
// are formatted; objects, arrays and empty strings are absent.
func String(v any) (string, bool) {
	switch v.(type) {
	case nil, map[string]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number parses a finite number from a JSON number or a numeric string.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, map[string]any, []any:
		return 0, false
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int is Number truncated toward zero.
func Int(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Count is Int clamped at zero.
func Count(v any) (int, bool) {
	n, ok := Int(v)
	if !ok {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

// Trend extracts the first decimal number from the value's string form and
// returns its absolute value. "-5", "+12.5%" and "down 3" all parse; the
// sign is dropped because direction is carried by a separate flag.
func Trend(v any) (float64, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		s = x.String()
	case int:
		s = strconv.Itoa(x)
	default:
		return 0, false
	}
	m := trendPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return finite(math.Abs(f))
}

// Bool accepts JSON booleans only.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Date parses a timestamp string or an epoch-milliseconds number. Anything
// else, including unparseable strings and instants outside years 0 to 9999,
// yields now.
func Date(v any, now time.Time) time.Time {
	switch x := v.(type) {
	case time.Time:
		if !x.IsZero() && storable(x.UTC()) {
			return x.UTC()
		}
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil && storable(t.UTC()) {
				return t.UTC()
			}
		}
	case float64:
		if f, ok := finite(x); ok && f >= float64(minMillis) && f <= float64(maxMillis) {
			return time.UnixMilli(int64(f)).UTC()
		}
	}
	return now.UTC()
}

// Bounds of the instants that encode as RFC 3339, which needs a four-digit
// year.
var (
	minMillis = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxMillis = time.Date(9999, 12, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli()
)

func storable(t time.Time) bool {
	return t.Year() >= 0 && t.Year() <= 9999
}

// ID returns the trimmed string form of v, or a fresh "<prefix>_<token>" when
// v is absent.
func ID(v any, prefix string, gen clock.IDGenerator) string {
	if s, ok := String(v); ok {
		return s
	}
	return clock.Prefixed(prefix, gen)
}

// StringList keeps the non-empty trimmed strings of an array, first
// occurrence wins. An empty result is absent.
func StringList(v any) ([]string, bool) {
	list, ok := Strings(v)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}

// Strings is StringList without the empty-means-absent rule: an empty array
// is a valid, empty value.
func Strings(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		if ss, isStrings := v.([]string); isStrings {
			arr = make([]any, len(ss))
			for i, s := range ss {
				arr[i] = s
			}
		} else {
			return nil, false
		}
	}
	out := make([]string, 0, len(arr))
	seen := make(map[string]struct{}, len(arr))
	for _, elem := range arr {
		s, isString := elem.(string)
		if !isString {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, true
}

// object returns v as a JSON object.
func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// array returns v as a JSON array.
func array(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}
