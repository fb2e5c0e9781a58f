package timing

import (
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/curtisnewbie/misotime/logger"
)

// Sink receives the timing log lines.
type Sink interface {
	Log(message string, category string)
}

// Func adapter for Sink.
type SinkFunc func(message string, category string)

func (f SinkFunc) Log(message string, category string) {
	f(message, category)
}

// Sink that writes INFO log using logrus, the category is attached as logger.CategoryField.
type LogrusSink struct{}

func (LogrusSink) Log(message string, category string) {
	logger.Category(category).Info(message)
}

// Timer holds the prepared timing configuration of a wrapped operation.
//
// Timer is immutable and can be shared between goroutines.
type Timer struct {
	name     string
	category string
	rules    []Rule
	sink     Sink
}

// Create Timer for fn.
//
// Name and category that are not configured are derived from fn's symbol name,
// e.g., for method value 'handler.GetUser' of type '*UserHandler', name is 'GetUser' and category is 'UserHandler'.
//
// Only the first Config is used.
func NewTimer(fn any, conf ...Config) *Timer {
	var c Config
	if len(conf) > 0 {
		c = conf[0]
	}

	t := &Timer{
		name:     c.Name,
		category: c.Category,
		rules:    append([]Rule(nil), c.Context...),
		sink:     c.Sink,
	}
	if t.sink == nil {
		t.sink = LogrusSink{}
	}
	if t.name == "" || t.category == "" {
		category, name := FuncNames(fn)
		if t.name == "" {
			t.name = name
		}
		if t.category == "" {
			t.category = category
		}
	}
	return t
}

func (t *Timer) Name() string {
	return t.name
}

func (t *Timer) Category() string {
	return t.category
}

// Emit timing log for an operation that started at start and has settled with res and err.
//
// Exactly one line is written to the sink. If the label can't be built, the line reports the configuration error instead.
func (t *Timer) Observe(start time.Time, req any, res any, err error) {
	t.observe(start, req, res, err != nil)
}

func (t *Timer) observe(start time.Time, req any, res any, failed bool) {
	elapsed := time.Since(start)
	label, err := BuildLabel(t.rules, req, res, failed)
	if err != nil {
		t.sink.Log("Failed to build timing label for "+t.name+", "+err.Error(), t.category)
		return
	}
	t.sink.Log(FormatLine(label, t.name, failed, elapsed), t.category)
}

// Resolve category and name of a func using its symbol name.
//
//	pkg.(*UserHandler).GetUser-fm -> (UserHandler, GetUser)
//	pkg.UserHandler.GetUser       -> (UserHandler, GetUser)
//	pkg.(*Repo[...]).Find-fm      -> (Repo, Find)
//	pkg.GetUser                   -> (pkg, GetUser)
//
// Func literals are named after the func enclosing them, e.g., 'pkg.Outer.func1' -> (pkg, Outer).
func FuncNames(fn any) (category string, name string) {
	if fn == nil {
		return "", ""
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return "", ""
	}
	rf := runtime.FuncForPC(rv.Pointer())
	if rf == nil {
		return "", ""
	}
	return splitFuncName(rf.Name())
}

func splitFuncName(fn string) (category string, name string) {
	fn = stripTypeParams(fn)
	if i := strings.LastIndexByte(fn, '/'); i > -1 {
		fn = fn[i+1:]
	}
	fn = strings.TrimSuffix(fn, "-fm")

	tok := strings.Split(fn, ".")
	for len(tok) > 1 && isClosureName(tok[len(tok)-1]) {
		tok = tok[:len(tok)-1]
	}
	if len(tok) < 2 {
		return "", tok[0]
	}
	category = strings.TrimSuffix(strings.TrimPrefix(tok[len(tok)-2], "(*"), ")")
	return category, tok[len(tok)-1]
}

// drop type params, e.g., 'pkg.(*Repo[...]).Find' -> 'pkg.(*Repo).Find'
func stripTypeParams(fn string) string {
	if strings.IndexByte(fn, '[') < 0 {
		return fn
	}
	var b strings.Builder
	depth := 0
	for _, r := range fn {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// 'func1', 'func1.2' (split into 'func1' and '2'), 'gowrap1'.
func isClosureName(s string) bool {
	for _, p := range []string{"func", "gowrap"} {
		if strings.HasPrefix(s, p) && len(s) > len(p) {
			s = s[len(p):]
			break
		}
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
