package fitness

import "time"

// WeekRange returns the current training week for the given instant:
// Monday 00:00:00 in now's location, inclusive, through the following
// Monday 00:00:00, exclusive. Every week-scoped lookup must share this
// boundary so that "session N of the week" means the same record
// everywhere.
func WeekRange(now time.Time) (time.Time, time.Time) {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceMonday)
	return start, start.AddDate(0, 0, 7)
}
