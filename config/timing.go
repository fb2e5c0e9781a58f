package config

import (
	"os"
	"strings"

	"github.com/curtisnewbie/misotime/errs"
	"github.com/curtisnewbie/misotime/timing"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// Handler timing rules in yaml file, e.g.,
//
//	handlers:
//	  GetUser:
//	    context:
//	      - source: Request
//	        key: id
//	      - source: Response
//	        key: status
type RulesFile struct {
	Handlers map[string]HandlerRules `yaml:"handlers"`
}

type HandlerRules struct {
	Context []timing.Rule `yaml:"context"`
}

// Load timing config of the handler from props.
//
// Rules are read from 'timing.handlers.<name>.context', which is either a list of '{source, key}' or
// a comma separated string like 'Request:id,Response:status' (e.g., passed as cli arg).
// If the prop is missing, the file specified by 'timing.rules.file' is checked.
//
// The returned Config has name set, it's empty if no rule is configured.
func (a *AppConfig) TimingConf(name string) (timing.Config, error) {
	conf := timing.Config{Name: name}
	key := PropTimingHandlers + "." + name + ".context"

	if a.HasProp(key) {
		var err error
		switch raw := a.GetProp(key).(type) {
		case string:
			conf.Context, err = ParseRules(raw)
		case []string: // 'KEY=VALUE' cli arg specified multiple times
			conf.Context, err = ParseRules(strings.Join(raw, ","))
		default:
			conf.Context, err = castRules(raw)
		}
		if err != nil {
			return conf, errs.WrapErrf(err, "invalid timing rules for handler '%v'", name)
		}
	} else if f := a.GetPropStr(PropTimingRulesFile); f != "" {
		rf, err := LoadRulesFile(f)
		if err != nil {
			return conf, err
		}
		if hr, ok := rf.Handlers[name]; ok {
			conf.Context = hr.Context
		}
	}

	if err := conf.Validate(); err != nil {
		return conf, errs.WrapErrf(err, "invalid timing rules for handler '%v'", name)
	}
	return conf, nil
}

// Load timing config of the handler from global props, see (*AppConfig).TimingConf.
func TimingConf(name string) (timing.Config, error) {
	return global.TimingConf(name)
}

// Load handler timing rules from yaml file.
func LoadRulesFile(path string) (RulesFile, error) {
	var rf RulesFile
	b, err := os.ReadFile(path)
	if err != nil {
		return rf, errs.WrapErrf(err, "failed to read timing rules file '%v'", path)
	}
	return ParseRulesYaml(b)
}

// Parse handler timing rules in yaml.
func ParseRulesYaml(b []byte) (RulesFile, error) {
	var rf RulesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return rf, errs.WrapErrf(err, "failed to parse timing rules")
	}
	for name, hr := range rf.Handlers {
		if err := (timing.Config{Context: hr.Context}).Validate(); err != nil {
			return rf, errs.WrapErrf(err, "invalid timing rules for handler '%v'", name)
		}
	}
	return rf, nil
}

// Parse comma separated rules, e.g., 'Request:id,Response:status'.
func ParseRules(s string) ([]timing.Rule, error) {
	tok := strings.Split(s, ",")
	rules := make([]timing.Rule, 0, len(tok))
	for _, t := range tok {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		src, key, ok := strings.Cut(t, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errs.ErrIllegalArgument.WithInternalMsg("malformed timing rule '%v'", t)
		}
		r := timing.Rule{Source: timing.Source(strings.TrimSpace(src)), Key: strings.TrimSpace(key)}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Convert list of '{source, key}' maps loaded by viper.
func castRules(raw any) ([]timing.Rule, error) {
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, errs.ErrIllegalArgument.Wrap(err)
	}

	rules := make([]timing.Rule, 0, len(items))
	for _, it := range items {
		m, err := cast.ToStringMapE(it)
		if err != nil {
			return nil, errs.ErrIllegalArgument.Wrap(err)
		}
		rules = append(rules, timing.Rule{
			Source: timing.Source(cast.ToString(m["source"])),
			Key:    cast.ToString(m["key"]),
		})
	}
	return rules, nil
}
