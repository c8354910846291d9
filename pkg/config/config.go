// Package config loads styletower's configuration from TOML or YAML.
//
// A configuration file declares the server address, the stylesheet's
// storage bounds, the block cache backend and the component catalog:
//
//	[server]
//	addr = ":8080"
//
//	[sheet]
//	capacity = 1000
//	max_segments = 0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[[component]]
//	name = "Button"
//	static = ["display:inline-flex;", "padding:4px 8px;"]
//
//	[[component]]
//	name = "PrimaryButton"
//	extends = "Button"
//	static = ["color:white;"]
//	dynamic = ["background:{{ .tone | default \"navy\" }};"]
//
// The same keys work in YAML files, which [Load] recognizes by their .yaml
// or .yml extension:
//
//	cache:
//	  backend: file
//	  dir: /var/cache/styletower
//	component:
//	  - name: Button
//	    static: ["display:inline-flex;"]
//
// Missing sections take the values of [Default].
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/tag"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "STYLETOWER_CONFIG"

// Cache backends.
const (
	BackendNull   = "null"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the top-level configuration.
type Config struct {
	Server     Server      `toml:"server" yaml:"server"`
	Sheet      Sheet       `toml:"sheet" yaml:"sheet"`
	Cache      Cache       `toml:"cache" yaml:"cache"`
	Components []Component `toml:"component" yaml:"component"`
}

// Server configures the HTTP server.
type Server struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Sheet configures per-request stylesheets.
type Sheet struct {
	Capacity    int `toml:"capacity" yaml:"capacity"`
	MaxSegments int `toml:"max_segments" yaml:"max_segments"`
}

// TagOptions converts the section into rule store options.
func (s Sheet) TagOptions() tag.Options {
	return tag.Options{Capacity: s.Capacity, MaxSegments: s.MaxSegments}
}

// Cache configures the block cache.
type Cache struct {
	Backend   string   `toml:"backend" yaml:"backend"`
	Dir       string   `toml:"dir" yaml:"dir"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr"`
	MongoURI  string   `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDB   string   `toml:"mongo_db" yaml:"mongo_db"`
	Namespace string   `toml:"namespace" yaml:"namespace"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
}

// Component declares a style definition.
type Component struct {
	Name    string   `toml:"name" yaml:"name"`
	Extends string   `toml:"extends" yaml:"extends"`
	Static  []string `toml:"static" yaml:"static"`
	Dynamic []string `toml:"dynamic" yaml:"dynamic"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
		},
		Sheet: Sheet{Capacity: tag.DefaultCapacity},
		Cache: Cache{
			Backend:   BackendMemory,
			MongoDB:   "styletower",
			Namespace: "styletower",
			TTL:       Duration{24 * time.Hour},
		},
	}
}

// Load reads the file at path over the defaults. An empty path falls back to
// $STYLETOWER_CONFIG and then to the defaults alone. Files ending in .yaml or
// .yml are YAML, everything else is TOML.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseYAML decodes YAML data over the defaults and validates the result.
// Keys must match the TOML names.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no component can work with.
// Every problem is reported, combined with multierr.
func (c Config) Validate() error {
	var errs error
	invalid := func(format string, args ...any) {
		errs = multierr.Append(errs, errors.New(errors.ErrCodeInvalidConfig, format, args...))
	}

	if c.Server.Addr == "" {
		invalid("server.addr must not be empty")
	}
	if c.Sheet.Capacity < 0 || c.Sheet.MaxSegments < 0 {
		invalid("sheet.capacity and sheet.max_segments must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		invalid("cache.ttl must not be negative")
	}

	switch c.Cache.Backend {
	case BackendNull, BackendMemory, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			invalid("cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDB == "" {
			invalid("cache.mongo_uri and cache.mongo_db are required for the mongo backend")
		}
	default:
		invalid("unknown cache backend %q", c.Cache.Backend)
	}

	seen := make(map[string]struct{}, len(c.Components))
	for i, comp := range c.Components {
		if err := errors.ValidateDefinitionKey(comp.Name); err != nil {
			errs = multierr.Append(errs, errors.Wrap(errors.ErrCodeInvalidConfig, err, "component %d", i))
			continue
		}
		if _, dup := seen[comp.Name]; dup {
			invalid("component %q is declared twice", comp.Name)
		}
		seen[comp.Name] = struct{}{}
	}
	return errs
}
