// Package clock lets turn timestamps, memory expiry and backend probe windows
// run against a controllable time source
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock Clock

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

type system struct{}

func (system) Now() time.Time { return time.Now() }

// New returns the wall clock
func New() Clock {
	return system{}
}
