package services

import "time"

// Clock supplies the current instant. Status derivation and reminder
// planning take it injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
