package timing

import (
	"strconv"
	"strings"
	"time"

	"github.com/curtisnewbie/misotime/field"
)

// Build label for the timing log.
//
// Each rule is rendered as 'key: value', joined with ', '. Response rules are skipped when the operation failed.
// Keys that can't be resolved are rendered as field.MissingValue.
//
// Returns error (errs.ErrInvalidContextSource) if any rule has unknown source.
func BuildLabel(rules []Rule, req any, res any, failed bool) (string, error) {
	if len(rules) < 1 {
		return "", nil
	}

	var b strings.Builder
	for _, r := range rules {
		var v any
		switch r.Source {
		case Request:
			v = req
		case Response:
			if failed {
				continue
			}
			v = res
		default:
			return "", r.Validate()
		}

		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.Key)
		b.WriteString(": ")
		if fv, ok := r.resolve(v); ok {
			b.WriteString(field.Render(fv))
		} else {
			b.WriteString(field.MissingValue)
		}
	}
	return b.String(), nil
}

// Format timing log line, e.g.,
//
//	[id: 42, status: ok] GetUser took 3ms
//	GetUser (error) took 3ms
func FormatLine(label string, name string, failed bool, elapsed time.Duration) string {
	var b strings.Builder
	if label != "" {
		b.WriteByte('[')
		b.WriteString(label)
		b.WriteString("] ")
	}
	b.WriteString(name)
	b.WriteByte(' ')
	if failed {
		b.WriteString("(error) ")
	}
	b.WriteString("took ")
	b.WriteString(strconv.FormatInt(elapsed.Milliseconds(), 10))
	b.WriteString("ms")
	return b.String()
}
