package league

import (
	"context"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// LocalToday returns the league-local calendar day for the instant now.
// A league without an offset runs on UTC.
func (l League) LocalToday(now time.Time) time.Time {
	offset := 0
	if l.TimezoneOffsetMinutes != nil {
		offset = *l.TimezoneOffsetMinutes
	}
	return DateOf(now.UTC().Add(time.Duration(offset) * time.Minute))
}

func (l League) Contains(day time.Time) bool {
	day = DateOf(day)
	return !day.Before(DateOf(l.StartDate)) && !day.After(DateOf(l.EndDate))
}

// WeeksInSpan counts the weeks covered by the league, start and end
// inclusive. A partial final week counts as a whole week.
func (l League) WeeksInSpan() int {
	start := DateOf(l.StartDate)
	end := DateOf(l.EndDate)
	if end.Before(start) {
		return 0
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return int(math.Ceil(float64(days) / 7))
}

// RestDayQuota is the number of approved rest days a member may hold.
func (l League) RestDayQuota() int {
	if l.RestDaysPerWeek <= 0 {
		return 0
	}
	return l.WeeksInSpan() * l.RestDaysPerWeek
}

// BoundContext applies the storage timeout to ctx. A non-positive timeout
// leaves ctx unbounded.
func BoundContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
