package rules

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// ParseTier normalizes a tier field to 1..3.
//
// "custom" maps to tier 1 (the caller flags custom records separately),
// numbers are truncated then clamped, strings are read like parseInt (leading
// integer, so "2nd" is 2) then clamped. Anything unreadable is tier 1.
func ParseTier(raw any) int {
	switch v := raw.(type) {
	case string:
		if v == lancer.TierCustom {
			return lancer.MinTier
		}
		n, ok := parseLeadingInt(v)
		if !ok {
			return lancer.MinTier
		}
		return clampTier(n)
	case float64:
		return clampFloatTier(v)
	case float32:
		return clampFloatTier(float64(v))
	case int:
		return clampTier(int64(v))
	case int32:
		return clampTier(int64(v))
	case int64:
		return clampTier(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return clampTier(n)
		}
		if f, err := v.Float64(); err == nil {
			return clampFloatTier(f)
		}
		return lancer.MinTier
	default:
		return lancer.MinTier
	}
}

func clampTier(n int64) int {
	if n < lancer.MinTier {
		return lancer.MinTier
	}
	if n > lancer.MaxTier {
		return lancer.MaxTier
	}
	return int(n)
}

func clampFloatTier(f float64) int {
	if math.IsNaN(f) {
		return lancer.MinTier
	}
	if f >= lancer.MaxTier {
		return lancer.MaxTier
	}
	if f <= lancer.MinTier {
		return lancer.MinTier
	}
	return int(math.Trunc(f))
}

// parseLeadingInt reads an optional sign and the leading digits of s, with a
// 0x prefix switching to hexadecimal. Values saturate instead of overflowing.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := int64(10)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	var n int64
	digits := 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || d >= base {
			break
		}
		digits++
		if n < math.MaxInt32 {
			n = n*base + d
		}
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

func digitValue(r rune) int64 {
	switch {
	case r >= '0' && r <= '9':
		return int64(r - '0')
	case r >= 'a' && r <= 'f':
		return int64(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int64(r-'A') + 10
	default:
		return -1
	}
}
