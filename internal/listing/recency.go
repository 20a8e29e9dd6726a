package listing

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownAge is the sentinel age-in-days for recency strings we cannot
// parse. It sorts unparseable postings to the end when ordering by date.
const UnknownAge = 999

var (
	daysRe   = regexp.MustCompile(`(\d+)\s*day`)
	weeksRe  = regexp.MustCompile(`(\d+)\s*week`)
	monthsRe = regexp.MustCompile(`(\d+)\s*month`)
)

// AgeInDays converts a free-text recency phrase from the upstream source
// ("3 days ago", "Just now") into a comparable age in days. The backend
// provides no structured timestamp so this is heuristic by design: months
// count as 30 days. Rules apply in order, first match wins, and every
// input yields a number so an odd phrase can never break rendering.
func AgeInDays(recency string) int {
	s := strings.ToLower(strings.TrimSpace(recency))
	if s == "" {
		return 0
	}
	if m := daysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := weeksRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 7
	}
	if m := monthsRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 30
	}
	if strings.Contains(s, "just") || strings.Contains(s, "today") || strings.Contains(s, "hour") {
		return 0
	}
	return UnknownAge
}
