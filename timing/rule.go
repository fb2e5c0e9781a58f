package timing

import (
	"github.com/curtisnewbie/misotime/errs"
	"github.com/curtisnewbie/misotime/field"
)

// Where the value of a Rule is read from.
type Source string

const (
	Request  Source = "Request"  // the request argument.
	Response Source = "Response" // the operation's result.
)

// Rule selects one field that is rendered in the label of the timing log, e.g., 'id: 42'.
type Rule struct {
	Source Source `yaml:"source"`
	Key    string `yaml:"key"`

	// Optional accessor, if nil, Key is resolved using field.Get.
	Extract func(v any) (any, bool) `yaml:"-"`
}

func (r Rule) resolve(v any) (any, bool) {
	if r.Extract != nil {
		return r.Extract(v)
	}
	return field.Get(v, r.Key)
}

func (r Rule) Validate() error {
	switch r.Source {
	case Request, Response:
		return nil
	}
	return errs.ErrInvalidContextSource.WithInternalMsg("source: '%v', key: '%v'", r.Source, r.Key)
}

// Rule that reads key from the request.
func Req(key string) Rule {
	return Rule{Source: Request, Key: key}
}

// Rule that reads key from the response.
func Res(key string) Rule {
	return Rule{Source: Response, Key: key}
}

// Rule with custom accessor.
func Extract(source Source, key string, extract func(v any) (any, bool)) Rule {
	return Rule{Source: source, Key: key, Extract: extract}
}

// Timing configuration.
type Config struct {
	// Fields rendered in the label, in order.
	Context []Rule

	// Name of the operation, by default it's the func's name, e.g., 'GetUser' for '(*UserHandler).GetUser'.
	Name string

	// Category of the log, by default it's the name of the func's owning type, e.g., 'UserHandler'.
	Category string

	// Where the timing log goes, LogrusSink by default.
	Sink Sink
}

// Validate the context rules.
func (c Config) Validate() error {
	for _, r := range c.Context {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
