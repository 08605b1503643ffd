package events

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

type Handler func(ev *Event)

type listener struct {
	filter  Filter
	handler Handler
}

// Dispatcher replays one fight for one selected player. Listeners are
// called synchronously, once per matching event, in registration order.
type Dispatcher struct {
	selectedID int
	listeners  []listener

	dispatched int
}

func NewDispatcher(selectedID int) *Dispatcher {
	return &Dispatcher{
		selectedID: selectedID,
	}
}

func (d *Dispatcher) SelectedID() int {
	return d.selectedID
}

func (d *Dispatcher) AddEventListener(filter Filter, handler Handler) {
	d.listeners = append(d.listeners, listener{filter: filter, handler: handler})
}

// Dispatched returns how many handler calls the last Run made.
func (d *Dispatcher) Dispatched() int {
	return d.dispatched
}

// Run sorts events by timestamp in place, keeping log order for equal
// timestamps, and delivers them.
func (d *Dispatcher) Run(ctx context.Context, list []Event) error {
	Sort(list)

	d.dispatched = 0
	for i := range list {
		if i%1024 == 0 && ctx.Err() != nil {
			return errors.WithStack(ctx.Err())
		}

		ev := &list[i]
		for _, l := range d.listeners {
			if l.filter.Match(ev, d.selectedID) {
				l.handler(ev)
				d.dispatched++
			}
		}
	}

	return nil
}

func Sort(list []Event) {
	sort.SliceStable(
		list,
		func(i, k int) bool {
			return list[i].Timestamp < list[k].Timestamp
		},
	)
}
