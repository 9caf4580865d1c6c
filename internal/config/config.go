package config

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/evstring/internal/config/loader"
	"github.com/dshills/evstring/internal/dstring"
	"github.com/dshills/evstring/internal/logging"
)

// Config holds the tuning of dynamic strings.
type Config struct {
	Buffer  BufferConfig
	Logging LoggingConfig
}

// BufferConfig controls allocation and growth.
type BufferConfig struct {
	// InitialCapacity is the minimum capacity of a new string. Zero means
	// exactly the content plus terminator.
	InitialCapacity int
	// MaxCapacity caps a single allocation. Zero means unlimited.
	MaxCapacity int
	// GrowthNumerator / GrowthDenominator is the capacity multiplier.
	GrowthNumerator   int
	GrowthDenominator int
	// Pooled recycles freed buffers through a pool allocator.
	Pooled bool
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	Level string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Buffer: BufferConfig{
			GrowthNumerator:   dstring.DefaultGrowthNumerator,
			GrowthDenominator: dstring.DefaultGrowthDenominator,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithEnvLoader replaces the environment variable layer.
func WithEnvLoader(env *loader.EnvLoader) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithoutEnv disables the environment variable layer.
func WithoutEnv() Option {
	return func(l *Loader) {
		l.env = nil
	}
}

// Loader builds a Config from defaults, a config file and the environment.
type Loader struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// NewLoader creates a loader reading from the OS file system and EVSTRING_
// environment variables.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path with the default loader.
func Load(path string) (Config, error) {
	return NewLoader().Load(path)
}

// Load layers the file at path (if any) and the environment over the
// defaults. An empty path or a missing file contributes nothing.
func (l *Loader) Load(path string) (Config, error) {
	merged := make(map[string]any)

	if path != "" {
		fl, err := loader.ForPath(l.fs, path)
		if err != nil {
			return Config{}, err
		}
		file, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	if l.env != nil {
		env, err := l.env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	return FromMap(merged)
}

// LoadFromReader parses a config document of the given format and layers
// it over the defaults. The environment is not consulted.
func LoadFromReader(r io.Reader, format loader.Format) (Config, error) {
	rl, err := loader.ForFormat(nil, format, "")
	if err != nil {
		return Config{}, err
	}
	m, err := rl.(loader.ReaderLoader).LoadFromReader(r)
	if err != nil {
		return Config{}, err
	}
	return FromMap(m)
}

// FromMap applies a configuration map over the defaults and validates the
// result.
func FromMap(m map[string]any) (Config, error) {
	c := Default()
	for section, raw := range m {
		fields, ok := raw.(map[string]any)
		if !ok {
			return Config{}, &ValidationError{Path: section, Message: "expected a table", Value: raw, Code: ErrCodeTypeMismatch}
		}
		for key, v := range fields {
			if err := c.set(section+"."+key, v); err != nil {
				return Config{}, err
			}
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) set(path string, v any) error {
	mismatch := func(want string) error {
		return &ValidationError{Path: path, Message: "expected " + want, Value: v, Code: ErrCodeTypeMismatch}
	}

	switch path {
	case "buffer.initialCapacity":
		n, ok := toInt(v)
		if !ok {
			return mismatch("an integer")
		}
		c.Buffer.InitialCapacity = n
	case "buffer.maxCapacity":
		n, ok := toInt(v)
		if !ok {
			return mismatch("an integer")
		}
		c.Buffer.MaxCapacity = n
	case "buffer.growth":
		num, den, err := parseGrowthValue(v)
		if err != nil {
			return mismatch(`a ratio such as "3/2"`)
		}
		c.Buffer.GrowthNumerator, c.Buffer.GrowthDenominator = num, den
	case "buffer.pooled":
		b, ok := toBool(v)
		if !ok {
			return mismatch("a boolean")
		}
		c.Buffer.Pooled = b
	case "logging.level":
		s, ok := v.(string)
		if !ok {
			return mismatch("a string")
		}
		c.Logging.Level = s
	default:
		return &ValidationError{Path: path, Message: "unknown setting", Value: v, Code: ErrCodeUnknownSetting}
	}
	return nil
}

// Validate checks ranges and combinations of settings.
func (c Config) Validate() error {
	b := c.Buffer
	if b.InitialCapacity < 0 {
		return &ValidationError{Path: "buffer.initialCapacity", Message: "must not be negative", Value: b.InitialCapacity, Code: ErrCodeOutOfRange}
	}
	if b.MaxCapacity < 0 {
		return &ValidationError{Path: "buffer.maxCapacity", Message: "must not be negative", Value: b.MaxCapacity, Code: ErrCodeOutOfRange}
	}
	if b.MaxCapacity > 0 && b.InitialCapacity > b.MaxCapacity {
		return &ValidationError{Path: "buffer.initialCapacity", Message: "exceeds maxCapacity", Value: b.InitialCapacity, Code: ErrCodeOutOfRange}
	}
	if b.GrowthDenominator <= 0 || b.GrowthNumerator <= b.GrowthDenominator {
		return &ValidationError{
			Path:    "buffer.growth",
			Message: "must be a ratio greater than 1",
			Value:   fmt.Sprintf("%d/%d", b.GrowthNumerator, b.GrowthDenominator),
			Code:    ErrCodeOutOfRange,
		}
	}
	if b.Pooled && b.MaxCapacity > 0 {
		return &ValidationError{Path: "buffer.maxCapacity", Message: "cannot be combined with pooled buffers", Value: b.MaxCapacity, Code: ErrCodeConflict}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level, Code: ErrCodeInvalidEnum}
	}
	return nil
}

// Options converts the buffer settings into string options. A nil logger
// leaves strings with the silent default.
func (c Config) Options(logger *logging.Logger) []dstring.Option {
	b := c.Buffer
	opts := []dstring.Option{
		dstring.WithGrowthFactor(b.GrowthNumerator, b.GrowthDenominator),
	}

	switch {
	case b.Pooled:
		opts = append(opts, dstring.WithAllocator(dstring.NewPoolAllocator()))
	case b.MaxCapacity > 0:
		opts = append(opts, dstring.WithAllocator(dstring.HeapAllocator{MaxCapacity: b.MaxCapacity}))
	}
	if b.InitialCapacity > 0 {
		opts = append(opts, dstring.WithInitialCapacity(b.InitialCapacity))
	}
	if logger != nil {
		opts = append(opts, dstring.WithLogger(logger))
	}
	return opts
}

// Logger creates a logger at the configured level writing to w.
func (c Config) Logger(w io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(c.Logging.Level),
		Output: w,
		Prefix: "evstring",
	})
}

// ParseGrowth parses a growth ratio written as "num/den" or "num".
func ParseGrowth(s string) (num, den int, err error) {
	numStr, denStr, hasDen := strings.Cut(strings.TrimSpace(s), "/")
	if num, err = strconv.Atoi(strings.TrimSpace(numStr)); err != nil {
		return 0, 0, fmt.Errorf("growth %q: %w", s, err)
	}
	den = 1
	if hasDen {
		if den, err = strconv.Atoi(strings.TrimSpace(denStr)); err != nil {
			return 0, 0, fmt.Errorf("growth %q: %w", s, err)
		}
	}
	return num, den, nil
}

func parseGrowthValue(v any) (int, int, error) {
	if s, ok := v.(string); ok {
		return ParseGrowth(s)
	}
	if n, ok := toInt(v); ok {
		return n, 1, nil
	}
	return 0, 0, fmt.Errorf("growth: unsupported type %T", v)
}

// toInt accepts the integer types produced by the TOML, YAML and
// environment loaders.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int, int64:
		n, _ := toInt(b)
		switch n {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	}
	return false, false
}
