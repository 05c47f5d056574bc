package connectivity

import (
	"context"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

// Event is a reachability change of the host.
type Event int

const (
	BecameUnreachable Event = iota
	BecameReachable
)

func (e Event) String() string {
	switch e {
	case BecameUnreachable:
		return "UNREACHABLE"
	case BecameReachable:
		return "REACHABLE"
	default:
		return "INVALID EVENT"
	}
}

// EventFor returns the event announcing a change into state s.
func EventFor(s State) Event {
	if s == Online {
		return BecameReachable
	}

	return BecameUnreachable
}

type Reporter interface {
	CurrentState() State
	// WaitForStateChange blocks until the state differs from the given one
	// and reports whether it did before ctx was done.
	WaitForStateChange(context.Context, State) bool
	Subscribe() *Client
}
