package reporting

import "time"

// Clock abstracts "now" so date-window and overdue computations are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time, shifted into Loc when set.
// The location drives the date-window defaults, so it should be the
// reporting timezone rather than wherever the server happens to run.
type SystemClock struct {
	Loc *time.Location
}

// Now returns the current time in the configured location
func (c SystemClock) Now() time.Time {
	if c.Loc != nil {
		return time.Now().In(c.Loc)
	}
	return time.Now()
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.T
}
