package numerator

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

var patternCache sync.Map // prefix -> *regexp.Regexp

func suffixPattern(prefix string) *regexp.Regexp {
	if re, ok := patternCache.Load(prefix); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)`)
	patternCache.Store(prefix, re)
	return re
}

// Format renders n with the configured prefix and zero padding.
func Format(cfg Config, n int64) string {
	width := cfg.PadWidth
	if width <= 0 {
		width = 1
	}
	return fmt.Sprintf("%s%0*d", cfg.Prefix, width, n)
}

// Seed is the number handed out when no prior number exists.
func Seed(cfg Config) string {
	return Format(cfg, 1)
}

// ParseSuffix extracts the numeric suffix of value.
// It reports false when value does not start with the prefix followed by digits.
func ParseSuffix(cfg Config, value string) (int64, bool) {
	m := suffixPattern(cfg.Prefix).FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextAfterLatest returns the number following latest.
// A missing or non-matching latest value yields the seed.
func NextAfterLatest(cfg Config, latest *string) string {
	if latest == nil || *latest == "" {
		return Seed(cfg)
	}
	n, ok := ParseSuffix(cfg, *latest)
	if !ok {
		return Seed(cfg)
	}
	return Format(cfg, n+1)
}

// MaxSuffix returns the highest suffix among values, or 0 when none match.
func MaxSuffix(cfg Config, values []string) int64 {
	var max int64
	for _, v := range values {
		if n, ok := ParseSuffix(cfg, v); ok && n > max {
			max = n
		}
	}
	return max
}

// NextAfterMax returns the number following the highest suffix among values.
func NextAfterMax(cfg Config, values []string) string {
	return Format(cfg, MaxSuffix(cfg, values)+1)
}
