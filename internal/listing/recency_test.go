package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgeInDays(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"Just now", 0},
		{"just posted", 0},
		{"Today", 0},
		{"2 hours ago", 0},
		{"1 day ago", 1},
		{"3 days ago", 3},
		{"10 Days ago", 10},
		{"1 week ago", 7},
		{"2 weeks ago", 14},
		{"1 month ago", 30},
		{"3 months ago", 90},
		{"posted yesterday in Q3", UnknownAge},
		{"a while back", UnknownAge},
		{"   ", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AgeInDays(c.in), "input %q", c.in)
	}
}

func TestAgeInDaysDaysWinOverKeywords(t *testing.T) {
	// rule order: an explicit day count beats the "hour"/"just" keywords
	assert.Equal(t, 2, AgeInDays("2 days ago, just reposted"))
}
