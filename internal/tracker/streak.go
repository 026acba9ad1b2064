package tracker

import "time"

// DateFormat is the day-granularity format used for streak bookkeeping.
// Days are pinned to the UTC calendar to keep the streak stable across
// timezone changes mid-session.
const DateFormat = "2006-01-02"

// Streak counts consecutive calendar days with at least one completed
// exercise. LastDate is empty while no completion was ever recorded.
type Streak struct {
	Count    int
	LastDate string
}

// RecordCompletion folds a completion happening at the given time into the
// streak:
//   - already counted today: no-op
//   - yesterday counted: streak extends
//   - anything else (never, a gap of 2+ days, or a future LastDate): streak
//     restarts at 1
func (s *Streak) RecordCompletion(now time.Time) {
	today := now.UTC().Format(DateFormat)
	if s.LastDate == today {
		return
	}

	yesterday := now.UTC().AddDate(0, 0, -1).Format(DateFormat)
	if s.LastDate == yesterday {
		s.Count++
	} else {
		s.Count = 1
	}
	s.LastDate = today
}

func (s *Streak) Reset() {
	s.Count = 0
	s.LastDate = ""
}
