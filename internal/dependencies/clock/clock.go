package clock

import "time"

// Clock stamps session expiry, room membership and finished game
// summaries. Tests swap in mocks.MockClock to step through expiry.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

var _ Clock = System{}

// New returns the wall clock used by the server
func New() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now()
}
