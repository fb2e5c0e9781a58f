package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/curtisnewbie/misotime/errs"
	"github.com/curtisnewbie/misotime/timing"
)

const testConf = `
app:
  name: timingdemo
server:
  port: 9090
timing:
  handlers:
    GetUser:
      context:
        - source: Request
          key: id
        - source: Response
          key: status
    Broken:
      context:
        - source: Header
          key: id
`

func assertRules(t *testing.T, rules []timing.Rule, want ...timing.Rule) {
	t.Helper()
	if len(rules) != len(want) {
		t.Fatalf("expected %v, actual %v", want, rules)
	}
	for i := range want {
		if rules[i].Source != want[i].Source || rules[i].Key != want[i].Key {
			t.Fatalf("expected %v, actual %v", want, rules)
		}
	}
}

func TestDefaultProps(t *testing.T) {
	a := NewAppConfig()
	if a.GetPropStr(PropServerHost) != "127.0.0.1" {
		t.Fatal(a.GetPropStr(PropServerHost))
	}
	if a.GetPropInt(PropServerPort) != 8080 {
		t.Fatal(a.GetPropInt(PropServerPort))
	}
	if !a.GetPropBool(PropTimingEnabled) {
		t.Fatal("timing should be enabled by default")
	}
}

func TestLoadConfigFromStr(t *testing.T) {
	a := NewAppConfig()
	if err := a.LoadConfigFromStr(testConf); err != nil {
		t.Fatal(err)
	}
	if v := a.GetPropStr(PropAppName); v != "timingdemo" {
		t.Fatalf("unexpected app name: %v", v)
	}
	if v := a.GetPropInt(PropServerPort); v != 9090 {
		t.Fatalf("unexpected port: %v", v)
	}

	conf, err := a.TimingConf("GetUser")
	if err != nil {
		t.Fatal(err)
	}
	if conf.Name != "GetUser" {
		t.Fatalf("unexpected name: %v", conf.Name)
	}
	assertRules(t, conf.Context, timing.Req("id"), timing.Res("status"))

	_, err = a.TimingConf("Broken")
	if !errors.Is(err, errs.ErrInvalidContextSource) {
		t.Fatalf("expected ErrInvalidContextSource, actual: %v", err)
	}

	conf, err = a.TimingConf("ListUsers")
	if err != nil {
		t.Fatal(err)
	}
	if len(conf.Context) != 0 {
		t.Fatalf("unexpected rules: %v", conf.Context)
	}
}

func TestOverwriteConf(t *testing.T) {
	a := NewAppConfig()
	if err := a.LoadConfigFromStr(testConf); err != nil {
		t.Fatal(err)
	}
	a.OverwriteConf([]string{
		"server.port=7070",
		"timing.handlers.GetUser.context=Response:status, Request:id",
		"timing.handlers.ListUsers.context=Request:page",
		"timing.handlers.ListUsers.context=Request:size",
		"not-a-kv",
	})
	if v := a.GetPropInt(PropServerPort); v != 7070 {
		t.Fatalf("unexpected port: %v", v)
	}

	conf, err := a.TimingConf("GetUser")
	if err != nil {
		t.Fatal(err)
	}
	assertRules(t, conf.Context, timing.Res("status"), timing.Req("id"))

	conf, err = a.TimingConf("ListUsers")
	if err != nil {
		t.Fatal(err)
	}
	assertRules(t, conf.Context, timing.Req("page"), timing.Req("size"))
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("Request:id,,Response:status")
	if err != nil {
		t.Fatal(err)
	}
	assertRules(t, rules, timing.Req("id"), timing.Res("status"))

	if _, err := ParseRules("Request"); !errors.Is(err, errs.ErrIllegalArgument) {
		t.Fatalf("expected ErrIllegalArgument, actual: %v", err)
	}
	if _, err := ParseRules("Cookie:id"); !errors.Is(err, errs.ErrInvalidContextSource) {
		t.Fatalf("expected ErrInvalidContextSource, actual: %v", err)
	}
}

func TestLoadRulesFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "rules.yml")
	err := os.WriteFile(f, []byte(`
handlers:
  GetUser:
    context:
      - source: Request
        key: id
  ListUsers:
    context:
      - source: Response
        key: total
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRulesFile(f)
	if err != nil {
		t.Fatal(err)
	}
	assertRules(t, rf.Handlers["GetUser"].Context, timing.Req("id"))
	assertRules(t, rf.Handlers["ListUsers"].Context, timing.Res("total"))

	a := NewAppConfig()
	a.SetProp(PropTimingRulesFile, f)
	conf, err := a.TimingConf("ListUsers")
	if err != nil {
		t.Fatal(err)
	}
	assertRules(t, conf.Context, timing.Res("total"))

	if _, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("should fail for missing file")
	}
	if _, err := ParseRulesYaml([]byte("handlers:\n  X:\n    context:\n      - source: Body\n        key: x\n")); !errors.Is(err, errs.ErrInvalidContextSource) {
		t.Fatalf("expected ErrInvalidContextSource, actual: %v", err)
	}
}

func TestGuessConfigFilePath(t *testing.T) {
	if p := GuessConfigFilePath([]string{"a=b"}); p != "conf.yml" {
		t.Fatal(p)
	}
	if p := GuessConfigFilePath([]string{"configFile=/etc/app.yml"}); p != "/etc/app.yml" {
		t.Fatal(p)
	}
}

func TestDefaultReadConfig(t *testing.T) {
	f := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(f, []byte(testConf), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewAppConfig()
	a.DefaultReadConfig([]string{"configFile=" + f, "app.name=overwritten"})
	if v := a.GetPropStr(PropAppName); v != "overwritten" {
		t.Fatalf("unexpected app name: %v", v)
	}
	if v := a.GetPropInt(PropServerPort); v != 9090 {
		t.Fatalf("unexpected port: %v", v)
	}
}
