package services

import "time"

// Clock abstracts time.Now so window arithmetic in the limiter, tracker and
// session store can run against simulated time in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
