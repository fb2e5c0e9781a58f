package timing

import (
	"time"

	"github.com/curtisnewbie/misotime/async"
)

// Operation that is timed by MeasureTime.
type Operation[Req any, Res any] func(req Req) (Res, error)

// Operation that is timed by MeasureTimeAsync.
type AsyncOperation[Req any, Res any] func(req Req) async.Future[Res]

// Wrap op so that every invocation is timed and logged.
//
// The returned func has the same behaviour as op, both the result and the error are returned unchanged.
// The log is written after op returns, or before the panic propagates, e.g.,
//
//	getUser := timing.MeasureTime(handler.GetUser, timing.Config{
//		Context: []timing.Rule{timing.Req("id"), timing.Res("status")},
//	})
//
//	// logs '[id: 42, status: ok] GetUser took 3ms'
//	res, err := getUser(GetUserReq{Id: 42})
func MeasureTime[Req any, Res any](op Operation[Req, Res], conf ...Config) Operation[Req, Res] {
	t := NewTimer(op, conf...)
	return func(req Req) (Res, error) {
		return Invoke(t, req, func() (Res, error) { return op(req) })
	}
}

// Wrap async op so that every invocation is timed and logged.
//
// The returned Future completes with op's result and error after the log is written.
func MeasureTimeAsync[Req any, Res any](op AsyncOperation[Req, Res], conf ...Config) AsyncOperation[Req, Res] {
	t := NewTimer(op, conf...)
	return func(req Req) async.Future[Res] {
		return InvokeAsync(t, req, func() async.Future[Res] { return op(req) })
	}
}

// Invoke call and write the timing log using t.
//
// req is only used to build the label, call should already have it bound.
func Invoke[Req any, Res any](t *Timer, req Req, call func() (Res, error)) (Res, error) {
	start := time.Now()
	settled := false
	defer func() {
		if !settled { // panicking
			t.observe(start, req, nil, true)
		}
	}()

	res, err := call()
	settled = true
	t.Observe(start, req, res, err)
	return res, err
}

// Invoke async call and write the timing log using t once the call's Future completes.
//
// The returned Future completes after the log is written.
func InvokeAsync[Req any, Res any](t *Timer, req Req, call func() async.Future[Res]) async.Future[Res] {
	start := time.Now()
	fut := callAsync(t, start, req, call)
	if fut == nil {
		t.observe(start, req, nil, false)
		return nil
	}

	return async.Run(func() (Res, error) {
		settled := false
		defer func() {
			if !settled {
				t.observe(start, req, nil, true)
			}
		}()

		res, err := fut.Get()
		settled = true
		t.Observe(start, req, res, err)
		return res, err
	})
}

func callAsync[Req any, Res any](t *Timer, start time.Time, req Req, call func() async.Future[Res]) async.Future[Res] {
	returned := false
	defer func() {
		if !returned { // panicked before a future is created
			t.observe(start, req, nil, true)
		}
	}()
	fut := call()
	returned = true
	return fut
}
