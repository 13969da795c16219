package types

import (
	"fmt"
	"strings"
	"time"
)

// Interval is a canonical candle interval such as "5m", "1h" or "1d".
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval3m:  3 * time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval2h:  2 * time.Hour,
	Interval4h:  4 * time.Hour,
	Interval6h:  6 * time.Hour,
	Interval12h: 12 * time.Hour,
	Interval1d:  24 * time.Hour,
	Interval1w:  7 * 24 * time.Hour,
	Interval1M:  30 * 24 * time.Hour,
}

// Bybit-style minute codes seen in data file names and older configs.
var intervalAliases = map[string]Interval{
	"1": Interval1m, "3": Interval3m, "5": Interval5m, "15": Interval15m, "30": Interval30m,
	"60": Interval1h, "120": Interval2h, "240": Interval4h, "360": Interval6h, "720": Interval12h,
	"D": Interval1d, "W": Interval1w, "M": Interval1M,
}

// ParseInterval accepts canonical intervals, their upper-case hour/day forms
// ("1H", "1D") and Bybit minute codes, and returns the canonical form.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("interval cannot be empty")
	}
	if _, ok := intervalDurations[Interval(s)]; ok {
		return Interval(s), nil
	}
	if iv, ok := intervalAliases[s]; ok {
		return iv, nil
	}
	// "1M" is a month, so only lower-case the non-minute suffixes.
	if !strings.HasSuffix(s, "M") {
		lower := Interval(strings.ToLower(s))
		if _, ok := intervalDurations[lower]; ok {
			return lower, nil
		}
	}
	supported := make([]string, 0, len(intervalDurations))
	for _, iv := range Intervals() {
		supported = append(supported, iv.String())
	}
	return "", fmt.Errorf("unsupported interval %q (supported: %s)", s, strings.Join(supported, ", "))
}

// Duration returns the nominal length of one candle. A month counts as 30 days.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

func (i Interval) String() string { return string(i) }

// Intervals lists every canonical interval from shortest to longest.
func Intervals() []Interval {
	return []Interval{
		Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
		Interval1h, Interval2h, Interval4h, Interval6h, Interval12h,
		Interval1d, Interval1w, Interval1M,
	}
}
