package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

const (
	ErrCodeUnknownError         string = "UNKNOWN_ERROR"
	ErrCodeIllegalArgument      string = "ILLEGAL_ARGUMENT"
	ErrCodeInvalidContextSource string = "INVALID_CONTEXT_SOURCE"
)

var (
	ErrUnknownError         *Err = NewErrfCode(ErrCodeUnknownError, "Unknown Error")
	ErrIllegalArgument      *Err = NewErrfCode(ErrCodeIllegalArgument, "Illegal Argument")
	ErrInvalidContextSource *Err = NewErrfCode(ErrCodeInvalidContextSource, "Invalid Context Source")
)

// Coded error.
//
//	Use NewErrf(...) or NewErrfCode(...) to instantiate.
type Err struct {
	code        string // error code.
	msg         string // error message.
	internalMsg string // extra detail, e.g., the offending value.
	stack       string
	err         error
}

func (e *Err) Cause() error {
	return e.err
}

func (e *Err) InternalMsg() string {
	return e.internalMsg
}

func (e *Err) Msg() string {
	return e.msg
}

func (e *Err) Code() string {
	return e.code
}

func (e *Err) HasCode() bool {
	return strings.TrimSpace(e.code) != ""
}

func (e *Err) StackTrace() string {
	return e.stack
}

func (e *Err) Error() string {
	tok := make([]string, 0, 3)
	if e.msg != "" {
		tok = append(tok, e.msg)
	}
	if e.internalMsg != "" {
		tok = append(tok, e.internalMsg)
	}
	if e.err != nil {
		tok = append(tok, e.err.Error())
	}
	return strings.Join(tok, ", ")
}

func (e *Err) Unwrap() error {
	return e.err
}

// Returns true, if both are *Err and the code matches.
//
// WithInternalMsg and Wrap always create new error, so the predefined errors can be reused as targets:
//
//	err := errs.ErrInvalidContextSource.WithInternalMsg("source: %v", src)
//	errors.Is(err, errs.ErrInvalidContextSource) // true
func (e *Err) Is(target error) bool {
	if te, ok := target.(*Err); ok && e.code != "" && e.code == te.code {
		return true
	}
	return false
}

// Create new *Err to wrap the cause error
//
// if cause is nil, nil is returned.
func (e *Err) Wrap(cause error) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	return n
}

func (e *Err) WithInternalMsg(msg string, args ...any) *Err {
	n := e.copyNew()
	n.withStack()
	if len(args) > 0 {
		n.internalMsg = fmt.Sprintf(msg, args...)
	} else {
		n.internalMsg = msg
	}
	return n
}

func (e *Err) copyNew() *Err {
	return &Err{
		code:        e.code,
		msg:         e.msg,
		internalMsg: e.internalMsg,
		stack:       e.stack,
		err:         e.err,
	}
}

func (e *Err) withStack() *Err {
	e.stack = stack(4)
	return e
}

// Create new *Err with message.
func NewErrf(msg string, args ...any) *Err {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg}
	e.withStack()
	return e
}

// Create new *Err with message and error code.
func NewErrfCode(code string, msg string, args ...any) *Err {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg, code: code}
	e.withStack()
	return e
}

// Wrap an error to create new *Err with message.
//
// If the wrapped err is nil, nil is returned.
func WrapErrf(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	e := &Err{msg: msg, err: err}
	e.withStack()
	return e
}

// Find the stacktrace captured by the innermost *Err in the chain.
func UnwrapErrStack(err error) (string, bool) {
	var stack string
	for ue := err; ue != nil; ue = errors.Unwrap(ue) {
		if e, ok := ue.(*Err); ok && e != nil {
			stack = e.stack
		}
	}
	return stack, stack != ""
}

var stackPool = sync.Pool{
	New: func() any {
		v := make([]uintptr, 50)
		return &v
	},
}

func stack(n int) string {
	pcs := stackPool.Get().(*[]uintptr)
	defer func() {
		clear(*pcs)
		stackPool.Put(pcs)
	}()

	length := runtime.Callers(n, *pcs)
	if length < 1 {
		return ""
	}
	frames := runtime.CallersFrames((*pcs)[:length])
	b := strings.Builder{}

	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("\n\t%v\n\t\t%v:%v", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	return b.String()
}
