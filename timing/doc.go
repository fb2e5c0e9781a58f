// Package timing wraps handler funcs to log how long each call takes.
//
// A wrapped call writes exactly one line, after the call has settled:
//
//	[id: 42, status: ok] GetUser took 3ms
//	[id: 42] GetUser (error) took 3ms
//	ListUsers took 12ms
//
// The bracketed label is built from Config.Context, each Rule reads one field from either the
// request argument or the result. Result fields are omitted when the call returned an error.
//
// Wrap handlers at registration time, e.g.,
//
//	h := &UserHandler{}
//	getUser := timing.MeasureTime(h.GetUser, timing.Config{Context: []timing.Rule{timing.Req("id")}})
package timing
