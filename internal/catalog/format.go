package catalog

import (
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration parses an ISO 8601 video duration such as PT1H2M3S.
// Unparseable input yields zero.
func ParseDuration(s string) time.Duration {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		d += time.Duration(n) * unit
	}
	return d
}

// FormatViews renders a raw view count as "1.2M views", "3.4K views" or
// "12 views".
func FormatViews(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		n = 0
	}
	switch {
	case n >= 1_000_000:
		return humanize.FtoaWithDigits(float64(n)/1_000_000, 1) + "M views"
	case n >= 1_000:
		return humanize.FtoaWithDigits(float64(n)/1_000, 1) + "K views"
	default:
		return humanize.Comma(n) + " views"
	}
}
