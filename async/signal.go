package async

import (
	"context"
	"sync"
	"time"
)

// Signal is closed at most once, all waiters are released when it's closed.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Close the signal, calling it more than once is a no-op.
func (s *Signal) Close() {
	s.once.Do(func() { close(s.ch) })
}

func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

func (s *Signal) Closed() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

func (s *Signal) Wait() {
	<-s.ch
}

// Wait until the signal is closed or ctx is done, returns ctx.Err() in the latter case.
func (s *Signal) WaitCtx(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait with timeout, returns true if timeout exceeded. Timeout less than 1 waits indefinitely.
func (s *Signal) TimedWait(timeout time.Duration) (isTimeout bool) {
	if timeout < 1 {
		s.Wait()
		return false
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.ch:
		return false
	case <-t.C:
		return true
	}
}
