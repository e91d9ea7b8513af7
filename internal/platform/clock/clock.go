package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
// Session dates are attributed in device-local time, so Now is not
// normalized to UTC.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
