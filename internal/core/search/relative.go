package search

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// RelativeLabel renders how long ago posted was, relative to now:
// "Today", "Yesterday", "3 days ago", "2 weeks ago", "1 month ago", "4 years ago".
func RelativeLabel(posted, now time.Time) string {
	if SameDay(posted, now) {
		return "Today"
	}
	if SameDay(posted, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}

	days := int(now.Sub(posted) / day)
	switch {
	case days < 0:
		// Posted later than now on another calendar day; clock skew.
		return "Today"
	case days < 7:
		return plural(days, "day")
	case days/7 < 4:
		return plural(days/7, "week")
	case days/30 < 12:
		return plural(max(1, days/30), "month")
	}
	return plural(max(1, days/365), "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
