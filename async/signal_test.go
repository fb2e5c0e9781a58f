package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSignal(t *testing.T) {
	s := NewSignal()
	if s.Closed() {
		t.Fatal("should not be closed")
	}
	if !s.TimedWait(5 * time.Millisecond) {
		t.Fatal("should timeout")
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Wait()
		}()
	}
	s.Close()
	s.Close()
	wg.Wait()

	if !s.Closed() || s.TimedWait(time.Second) {
		t.Fatal("should be closed")
	}
}

func TestSignalWaitCtx(t *testing.T) {
	s := NewSignal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WaitCtx(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, actual: %v", err)
	}
	s.Close()
	if err := s.WaitCtx(context.Background()); err != nil {
		t.Fatal(err)
	}
}
