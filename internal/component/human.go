package component

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var humanDuration = regexp.MustCompile(`^([0-9]+)\s*([a-zA-Z]+)$`)

// ParseDuration reads a human duration such as "2m", "30 secs", "1h", "2d"
// or "1wk". A bare integer is seconds. Anything else is tried with
// time.ParseDuration, so "1h30m" also works. Negative durations are
// rejected with ErrNegativeDuration.
func ParseDuration(s string) (time.Duration, error) {
	d, err := parseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("parse duration %q: %w", s, ErrNegativeDuration)
	}
	return d, nil
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}

	if m := humanDuration.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", s, err)
		}
		unit, ok := durationUnit(strings.ToLower(m[2]))
		if ok {
			return time.Duration(n) * unit, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: supported units are s(ecs), m(ins), h(r), d(y), w(k)", s)
	}
	return d, nil
}

func durationUnit(unit string) (time.Duration, bool) {
	switch unit {
	case "s", "sec", "secs", "second", "seconds":
		return time.Second, true
	case "m", "min", "mins", "minute", "minutes":
		return time.Minute, true
	case "h", "hr", "hrs", "hour", "hours":
		return time.Hour, true
	case "d", "dy", "day", "days":
		return 24 * time.Hour, true
	case "w", "wk", "week", "weeks":
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// ParseSwitch reads on/off, enabled/disabled and true/false, ignoring case.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "enabled", "true":
		return true, nil
	case "off", "disabled", "false":
		return false, nil
	default:
		return false, fmt.Errorf("parse switch %q: want on/off, enabled/disabled or true/false", s)
	}
}
