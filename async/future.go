package async

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	_ Future[any] = (*future[any])(nil)
	_ Future[any] = (*completedFuture[any])(nil)
)

var (
	ErrGetTimeout = errors.New("future.TimedGet timeout")
)

// Result of a asynchronous task.
type Future[T any] interface {

	// Get result without timeout.
	Get() (T, error)

	// Get result with timeout (in milliseconds), returns ErrGetTimeout if timeout exceeded.
	TimedGet(timeout int) (T, error)

	// Get result, stop waiting when ctx is done and return ctx.Err().
	GetCtx(ctx context.Context) (T, error)

	// Then callback to be invoked when the Future is completed.
	//
	// Then callback should only be set once for every Future.
	Then(tf func(T, error))

	// Then callback to be invoked when the Future is completed.
	//
	// Then callback should only be set once for every Future.
	ThenErr(tf func(error))
}

// Create Future, once the future is created, it starts running on a new goroutine.
//
// If task panics, the panic is recovered and returned as the Future's error.
func Run[T any](task func() (T, error)) Future[T] {
	fut, wrp := buildFuture(task)
	go wrp()
	return fut
}

// Create Future that is already completed.
func NewCompletedFuture[T any](t T, err error) Future[T] {
	return &completedFuture[T]{res: t, err: err}
}

type future[T any] struct {
	res  T
	err  error
	done *Signal

	// syncs .Then() with the task func
	thenMu *sync.Mutex
	then   func(T, error)
}

func (f *future[T]) Then(tf func(T, error)) {
	if tf == nil {
		panic("Future.Then callback cannot be nil")
	}

	f.thenMu.Lock()
	f.then = func(t T, err error) {
		defer recoverPanic()
		tf(t, err)
	}

	if f.done.Closed() {
		doThen := f.then
		f.thenMu.Unlock()
		doThen(f.Get())
	} else {
		f.thenMu.Unlock()
	}
}

func (f *future[T]) ThenErr(tf func(error)) {
	f.Then(func(t T, err error) {
		tf(err)
	})
}

// Get from Future indefinitively
func (f *future[T]) Get() (T, error) {
	f.done.Wait()
	return f.res, f.err
}

// Get from Future with timeout (in milliseconds)
func (f *future[T]) TimedGet(timeout int) (T, error) {
	if f.done.TimedWait(time.Duration(timeout) * time.Millisecond) {
		return f.res, ErrGetTimeout
	}
	return f.res, f.err
}

func (f *future[T]) GetCtx(ctx context.Context) (T, error) {
	if err := f.done.WaitCtx(ctx); err != nil {
		var t T
		return t, err
	}
	return f.res, f.err
}

func buildFuture[T any](task func() (T, error)) (*future[T], func()) {
	fut := &future[T]{
		thenMu: &sync.Mutex{},
		done:   NewSignal(),
	}
	wrp := func() {
		var t T
		var err error

		defer func() {
			if v := recover(); v != nil {
				logrus.Errorf("Panic recovered, %v\n%v", v, string(debug.Stack()))
				if verr, ok := v.(error); ok {
					err = verr
				} else {
					err = fmt.Errorf("%v", v)
				}
			}

			fut.thenMu.Lock()
			fut.res = t
			fut.err = err
			fut.done.Close()
			doThen := fut.then
			fut.thenMu.Unlock()
			if doThen != nil {
				doThen(t, err)
			}
		}()

		t, err = task()
	}
	return fut, wrp
}

type completedFuture[T any] struct {
	res T
	err error
}

func (f *completedFuture[T]) Get() (T, error) {
	return f.res, f.err
}

func (f *completedFuture[T]) TimedGet(timeout int) (T, error) {
	return f.res, f.err
}

func (f *completedFuture[T]) GetCtx(ctx context.Context) (T, error) {
	return f.res, f.err
}

func (f *completedFuture[T]) Then(tf func(T, error)) {
	if tf == nil {
		panic("Future.Then callback cannot be nil")
	}
	defer recoverPanic()
	tf(f.res, f.err)
}

func (f *completedFuture[T]) ThenErr(tf func(error)) {
	f.Then(func(t T, err error) {
		tf(err)
	})
}

func recoverPanic() {
	if v := recover(); v != nil {
		logrus.Errorf("Panic recovered, %v\n%v", v, string(debug.Stack()))
	}
}
