package services

import "time"

// Clock is injected everywhere a timestamp is stamped so the
// first/last-accessed and completed-at transitions stay deterministic
// under test.
type Clock interface {
  Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }
