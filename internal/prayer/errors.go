package prayer

import (
	"errors"
	"fmt"
)

// ErrUnresolvedTime is matched by every *UnresolvedTimeError.
var ErrUnresolvedTime = errors.New("time unavailable")

// UnresolvedTimeError marks a single entry that could not be placed, even
// after the method's high-latitude rule. The rest of the schedule is valid.
type UnresolvedTimeError struct {
	Name   Name
	Reason string
}

func (e *UnresolvedTimeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Name, ErrUnresolvedTime, e.Reason)
}

// Is lets errors.Is(err, ErrUnresolvedTime) match any UnresolvedTimeError.
func (e *UnresolvedTimeError) Is(target error) bool {
	return target == ErrUnresolvedTime
}

func unresolved(name Name, reason string) Prayer {
	return Prayer{Name: name, Err: &UnresolvedTimeError{Name: name, Reason: reason}}
}
