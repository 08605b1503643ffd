package semaphore

import (
	"context"

	"github.com/pkg/errors"
)

// Semaphore bounds how many callers hold a slot at once.
type Semaphore struct {
	ch chan struct{}
}

func New(max int) *Semaphore {
	if max < 1 {
		max = 1
	}

	sema := &Semaphore{
		ch: make(chan struct{}, max),
	}
	for i := 0; i < max; i++ {
		sema.ch <- struct{}{}
	}

	return sema
}

// Acquire waits for a slot or for ctx to be done.
func (sema *Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-sema.ch:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

func (sema *Semaphore) Release() {
	sema.ch <- struct{}{}
}

// Available reports the number of free slots.
func (sema *Semaphore) Available() int {
	return len(sema.ch)
}
