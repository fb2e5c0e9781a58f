package config

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/curtisnewbie/misotime/errs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	global = NewAppConfig()
)

// Application configuration backed by viper.
//
// AppConfig is safe for concurrent use.
type AppConfig struct {
	vp   *viper.Viper
	rwmu *sync.RWMutex
}

// Create AppConfig with default props.
func NewAppConfig() *AppConfig {
	a := &AppConfig{
		vp:   viper.New(),
		rwmu: &sync.RWMutex{},
	}
	for k, v := range defaultProps {
		a.vp.SetDefault(k, v)
	}
	return a
}

// Set value for the prop
func (a *AppConfig) SetProp(prop string, val any) {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()
	a.vp.Set(prop, val)
}

// Set default value for the prop
func (a *AppConfig) SetDefProp(prop string, defVal any) {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()
	a.vp.SetDefault(prop, defVal)
}

// Check whether the prop exists
func (a *AppConfig) HasProp(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.IsSet(prop) })
}

// Get raw prop value
func (a *AppConfig) GetProp(prop string) any {
	return returnWithReadLock(a, func() any { return a.vp.Get(prop) })
}

// Get prop as string
func (a *AppConfig) GetPropStr(prop string) string {
	return returnWithReadLock(a, func() string { return a.vp.GetString(prop) })
}

// Get prop as int
func (a *AppConfig) GetPropInt(prop string) int {
	return returnWithReadLock(a, func() int { return a.vp.GetInt(prop) })
}

// Get prop as bool
func (a *AppConfig) GetPropBool(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.GetBool(prop) })
}

// Get prop as string slice
func (a *AppConfig) GetPropStrSlice(prop string) []string {
	return returnWithReadLock(a, func() []string { return a.vp.GetStringSlice(prop) })
}

// Get prop as time.Duration
func (a *AppConfig) GetPropDur(prop string, unit time.Duration) time.Duration {
	return time.Duration(a.GetPropInt(prop)) * unit
}

// Load yaml config from io Reader.
//
// It's the caller's responsibility to close the provided reader.
//
// Loaded config is merged with the previously loaded config.
func (a *AppConfig) LoadConfigFromReader(reader io.Reader) error {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()

	a.vp.SetConfigType("yml")
	if err := a.vp.MergeConfig(reader); err != nil {
		return errs.WrapErrf(err, "failed to load config from reader")
	}
	return nil
}

// Load yaml config from string.
func (a *AppConfig) LoadConfigFromStr(s string) error {
	return a.LoadConfigFromReader(strings.NewReader(s))
}

// Load yaml config from file.
func (a *AppConfig) LoadConfigFromFile(configFile string) error {
	if configFile == "" {
		return nil
	}

	f, err := os.Open(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.WrapErrf(err, "unable to find config file: '%s'", configFile)
		}
		return errs.WrapErrf(err, "failed to open config file: '%s'", configFile)
	}
	defer f.Close()

	if err := a.LoadConfigFromReader(f); err != nil {
		return errs.WrapErrf(err, "failed to load config file: '%s'", configFile)
	}
	return nil
}

// Overwrite existing conf using environment and cli args in 'KEY=VALUE' form.
func (a *AppConfig) OverwriteConf(args []string) {
	a.overwriteConf(ArgKeyVal(os.Environ()))
	a.overwriteConf(ArgKeyVal(args))
}

func (a *AppConfig) overwriteConf(kvs map[string][]string) {
	for k, v := range kvs {
		if len(v) == 1 {
			a.SetProp(k, v[0])
		} else {
			a.SetProp(k, v)
		}
	}
}

/*
Default way to read config file.

The config file is 'conf.yml' unless 'configFile=/path/to/conf.yml' is specified in args.

The loaded configuration is then overwritten by environment variables and cli args using `KEY=VALUE` syntax.
*/
func (a *AppConfig) DefaultReadConfig(args []string) {
	f := GuessConfigFilePath(args)
	if err := a.LoadConfigFromFile(f); err != nil {
		logrus.Debugf("Failed to load config file, file: %v, %v", f, err)
	} else {
		logrus.Infof("Loaded config file: %v", f)
	}
	a.OverwriteConf(args)
}

// Set value for the prop
func SetProp(prop string, val any) {
	global.SetProp(prop, val)
}

// Set default value for the prop
func SetDefProp(prop string, defVal any) {
	global.SetDefProp(prop, defVal)
}

// Check whether the prop exists
func HasProp(prop string) bool {
	return global.HasProp(prop)
}

// Get prop as string
func GetPropStr(prop string) string {
	return global.GetPropStr(prop)
}

// Get prop as int
func GetPropInt(prop string) int {
	return global.GetPropInt(prop)
}

// Get prop as bool
func GetPropBool(prop string) bool {
	return global.GetPropBool(prop)
}

// Get prop as string slice
func GetPropStrSlice(prop string) []string {
	return global.GetPropStrSlice(prop)
}

// Get prop as time.Duration
func GetPropDur(prop string, unit time.Duration) time.Duration {
	return global.GetPropDur(prop, unit)
}

// Load yaml config from string.
func LoadConfigFromStr(s string) error {
	return global.LoadConfigFromStr(s)
}

// Load yaml config from file.
func LoadConfigFromFile(configFile string) error {
	return global.LoadConfigFromFile(configFile)
}

// Default way to read config file, see (*AppConfig).DefaultReadConfig.
func DefaultReadConfig(args []string) {
	global.DefaultReadConfig(args)
}

// Parse CLI args to key-value map
func ArgKeyVal(args []string) map[string][]string {
	m := map[string][]string{}
	for _, s := range args {
		eq := strings.Index(s, "=")
		if eq == -1 {
			continue
		}
		key := strings.TrimSpace(s[:eq])
		val := strings.TrimSpace(s[eq+1:])
		m[key] = append(m[key], val)
	}
	return m
}

// Guess config file path.
//
// It first looks for the arg that matches the pattern "configFile=/path/to/configFile".
// If none is found, it's by default 'conf.yml'.
func GuessConfigFilePath(args []string) string {
	for _, s := range args {
		if k, v, ok := strings.Cut(s, "="); ok && k == "configFile" && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "conf.yml"
}

func returnWithReadLock[T any](a *AppConfig, f func() T) T {
	a.rwmu.RLock()
	defer a.rwmu.RUnlock()
	return f()
}
