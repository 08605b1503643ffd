package analyzer

import (
	"sync"

	"combatlog_check/events"
)

type Highlighter interface {
	HighlightInefficientCast(ev *events.Event, message string)
}

type Highlight struct {
	Timestamp int64  `json:"timestamp"`
	AbilityID int    `json:"ability_id"`
	Message   string `json:"message"`

	event *events.Event
}

// Registry collects highlighted casts for one fight. Marking the same event
// twice keeps the first message.
type Registry struct {
	lock sync.Mutex

	list []Highlight
	seen map[*events.Event]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		seen: make(map[*events.Event]struct{}),
	}
}

func (r *Registry) HighlightInefficientCast(ev *events.Event, message string) {
	if ev == nil {
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.seen[ev]; ok {
		return
	}
	r.seen[ev] = struct{}{}

	r.list = append(r.list, Highlight{
		Timestamp: ev.Timestamp,
		AbilityID: ev.AbilityID,
		Message:   message,
		event:     ev,
	})
}

func (r *Registry) IsHighlighted(ev *events.Event) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, ok := r.seen[ev]
	return ok
}

func (r *Registry) Highlights() []Highlight {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]Highlight, len(r.list))
	copy(out, r.list)
	return out
}
