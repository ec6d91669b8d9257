// Package config resolves the profiler settings from flags, environment
// variables, an optional YAML profile file and built-in defaults, in that
// order of precedence, and validates them before any network call is made.
package config

import (
	"bytes"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/stats"
)

// Setting keys. Each is also the long flag name.
const (
	KeyRPC        = "rpc"
	KeyBlocks     = "blocks"
	KeyStep       = "step"
	KeyPercentile = "percentile"
	KeyTimeout    = "timeout"
	KeyTotal      = "timeout-total"
	KeyLogLevel   = "log-level"
	KeyConfig     = "config"
)

// Built-in defaults.
const (
	DefaultRPC        = "https://mainnet.infura.io/v3/your_api_key"
	DefaultBlocks     = 180
	DefaultStep       = 3
	DefaultPercentile = 0.8
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "info"
)

// EnvVars maps setting keys to their environment variables.
var EnvVars = map[string]string{
	KeyRPC:        "RPC_URL",
	KeyBlocks:     "ZK_FEE_BLOCKS",
	KeyStep:       "ZK_FEE_STEP",
	KeyPercentile: "ZK_FEE_TARGET_PCT",
	KeyTimeout:    "ZK_FEE_TIMEOUT",
	KeyTotal:      "ZK_FEE_TIMEOUT_TOTAL",
	KeyLogLevel:   "ZK_FEE_LOG_LEVEL",
	KeyConfig:     "ZK_FEE_CONFIG",
}

// File is the optional YAML profile. Unset fields keep the built-in
// defaults; environment variables and flags still override it.
//
//	rpc: ${SEPOLIA_RPC}
//	blocks: 300
//	step: 5
//	percentile: 0.9
//	timeout: 10s
//	log_level: debug
type File struct {
	RPC        string        `yaml:"rpc"`
	Blocks     uint64        `yaml:"blocks"`
	Step       uint64        `yaml:"step"`
	Percentile *float64      `yaml:"percentile"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`
}

// LoadFile reads a YAML profile, expanding ${VAR} references from the
// environment. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(errs.KindConfig, "config", err, "failed to read %s", path)
	}

	expanded := os.ExpandEnv(string(data))

	var f File
	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errs.Wrapf(errs.KindConfig, "config", err, "failed to parse %s", path)
	}
	return &f, nil
}

// Options are the resolved run settings.
type Options struct {
	RPCURL     string
	Blocks     uint64
	Step       uint64
	Percentile float64
	Timeout    time.Duration // per call
	Total      time.Duration // whole run, 0 for none
	LogLevel   string
	ConfigPath string

	Head   *uint64 // anchor block, chain head when nil
	JSON   bool
	Report bool
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyRPC, DefaultRPC)
	v.SetDefault(KeyBlocks, DefaultBlocks)
	v.SetDefault(KeyStep, DefaultStep)
	v.SetDefault(KeyPercentile, DefaultPercentile)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyTotal, time.Duration(0))
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyConfig, "")

	for key, env := range EnvVars {
		// BindEnv only fails without a key.
		_ = v.BindEnv(key, env)
	}
	return v
}

// BindFlags binds every setting key that exists in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key := range EnvVars {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errs.Wrapf(errs.KindInternal, "config", err, "bind flag %s", key)
		}
	}
	return nil
}

// Resolve reads the settings from v. When a profile file is configured its
// values replace the built-in defaults. Values that cannot be parsed are
// Config errors; range checks happen in Validate.
func Resolve(v *viper.Viper) (*Options, error) {
	path := v.GetString(KeyConfig)
	if path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		applyFile(v, f)
	}

	blocks, err := decimalUint64(v.Get(KeyBlocks))
	if err != nil {
		return nil, invalid(KeyBlocks, err)
	}
	step, err := decimalUint64(v.Get(KeyStep))
	if err != nil {
		return nil, invalid(KeyStep, err)
	}
	pct, err := cast.ToFloat64E(v.Get(KeyPercentile))
	if err != nil {
		return nil, invalid(KeyPercentile, err)
	}
	timeout, err := cast.ToDurationE(v.Get(KeyTimeout))
	if err != nil {
		return nil, invalid(KeyTimeout, err)
	}
	total, err := cast.ToDurationE(v.Get(KeyTotal))
	if err != nil {
		return nil, invalid(KeyTotal, err)
	}

	return &Options{
		RPCURL:     v.GetString(KeyRPC),
		Blocks:     blocks,
		Step:       step,
		Percentile: pct,
		Timeout:    timeout,
		Total:      total,
		LogLevel:   v.GetString(KeyLogLevel),
		ConfigPath: path,
	}, nil
}

func applyFile(v *viper.Viper, f *File) {
	if f.RPC != "" {
		v.SetDefault(KeyRPC, f.RPC)
	}
	if f.Blocks != 0 {
		v.SetDefault(KeyBlocks, f.Blocks)
	}
	if f.Step != 0 {
		v.SetDefault(KeyStep, f.Step)
	}
	if f.Percentile != nil {
		v.SetDefault(KeyPercentile, *f.Percentile)
	}
	if f.Timeout != 0 {
		v.SetDefault(KeyTimeout, f.Timeout)
	}
	if f.LogLevel != "" {
		v.SetDefault(KeyLogLevel, f.LogLevel)
	}
}

// decimalUint64 reads strings from flags and the environment as base 10,
// so "010" is 10 rather than octal 8 and "0x10" is rejected.
func decimalUint64(v interface{}) (uint64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	}
	return cast.ToUint64E(v)
}

func invalid(key string, err error) error {
	return errs.Wrapf(errs.KindConfig, "config", err, "invalid %s (flag --%s or $%s)", key, key, EnvVars[key])
}

// Validate checks ranges and the endpoint URL. Suspicious but legal values
// are logged as warnings.
func (o *Options) Validate() error {
	if math.IsNaN(o.Percentile) || !stats.ValidPercentile(o.Percentile) {
		return errs.New(errs.KindConfig, "config", "percentile must be within [0.0, 1.0], got %v", o.Percentile)
	}
	if o.Blocks == 0 {
		return errs.New(errs.KindConfig, "config", "blocks must be > 0")
	}
	if o.Step == 0 {
		return errs.New(errs.KindConfig, "config", "step must be > 0")
	}
	if o.Timeout <= 0 {
		return errs.New(errs.KindConfig, "config", "timeout must be > 0")
	}
	if o.Total < 0 {
		return errs.New(errs.KindConfig, "config", "timeout-total must be >= 0")
	}
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return errs.Wrap(errs.KindConfig, "config", err)
	}
	if err := validateURL(o.RPCURL); err != nil {
		return err
	}

	if o.Step > o.Blocks {
		logrus.Warnf("step (%d) exceeds the block window (%d); only the head block will be sampled", o.Step, o.Blocks)
	}

	const low = 500 * time.Millisecond
	const high = 2 * time.Minute
	if o.Timeout < low {
		logrus.Warnf("timeout is very low (%s); requests may fail under normal network jitter", o.Timeout)
	}
	if o.Timeout > high {
		logrus.Warnf("timeout is very high (%s); failures may take a long time to surface", o.Timeout)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errs.New(errs.KindConfig, "config", "rpc url is required (flag --rpc or $RPC_URL)")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errs.Wrap(errs.KindConfig, "config", errors.WithMessage(err, "invalid rpc url"))
	}
	if u.Scheme == "" || u.Host == "" {
		return errs.New(errs.KindConfig, "config", "invalid rpc url %q (missing scheme or host)", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errs.New(errs.KindConfig, "config", "invalid rpc url scheme %q (expected http or https)", u.Scheme)
	}
	return nil
}
