// Package settings loads process options: defaults, then an optional YAML
// file, then command-line flags.
package settings

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Settings are the server process options.
type Settings struct {
	Addr          string `koanf:"addr"`
	World         string `koanf:"world"`
	TickRate      int    `koanf:"tick-rate"`
	DB            string `koanf:"db"`
	JournalDir    string `koanf:"journal-dir"`
	JWTSecret     string `koanf:"jwt-secret"`
	LogFormat     string `koanf:"log-format"`
	LogLevel      string `koanf:"log-level"`
	InboxSize     int    `koanf:"inbox-size"`
	MaxConnsPerIP int    `koanf:"max-conns-per-ip"`
	MaxConns      int    `koanf:"max-conns"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Addr:          ":8080",
		World:         "worlds/arena.yaml",
		TickRate:      30,
		DB:            "goom.db",
		LogFormat:     "json",
		LogLevel:      "info",
		InboxSize:     1024,
		MaxConnsPerIP: 5,
		MaxConns:      1000,
	}
}

func defaultMap() map[string]any {
	d := Defaults()
	return map[string]any{
		"addr":             d.Addr,
		"world":            d.World,
		"tick-rate":        d.TickRate,
		"db":               d.DB,
		"journal-dir":      d.JournalDir,
		"jwt-secret":       d.JWTSecret,
		"log-format":       d.LogFormat,
		"log-level":        d.LogLevel,
		"inbox-size":       d.InboxSize,
		"max-conns-per-ip": d.MaxConnsPerIP,
		"max-conns":        d.MaxConns,
	}
}

// RegisterFlags adds one flag per setting to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("addr", d.Addr, "listen address")
	fs.String("world", d.World, "world configuration file (.json, .yaml)")
	fs.Int("tick-rate", d.TickRate, "ticks per second")
	fs.String("db", d.DB, "analytics SQLite path, empty to disable")
	fs.String("journal-dir", d.JournalDir, "directory for tick journals, empty to disable")
	fs.String("jwt-secret", d.JWTSecret, "HS256 secret for connection tokens, empty for anonymous ids")
	fs.String("log-format", d.LogFormat, "log format: json or text")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.Int("inbox-size", d.InboxSize, "buffered inbound events")
	fs.Int("max-conns-per-ip", d.MaxConnsPerIP, "connection limit per client IP")
	fs.Int("max-conns", d.MaxConns, "total connection limit")
}

// Load layers defaults, the optional YAML file at path and the changed
// flags of fs. Either path or fs may be empty.
func Load(path string, fs *pflag.FlagSet) (Settings, error) {
	k := koanf.New(".")
	for key, v := range defaultMap() {
		if err := k.Set(key, v); err != nil {
			return Settings{}, oops.Code("INVALID_CONFIG").With("key", key).Wrap(err)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, oops.Code("INVALID_CONFIG").With("path", path).Wrap(err)
		}
	}
	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Settings{}, oops.Code("INVALID_CONFIG").Wrap(err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, oops.Code("INVALID_CONFIG").Wrap(err)
	}
	return s, s.Validate()
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	errb := oops.Code("INVALID_CONFIG")
	switch {
	case s.Addr == "":
		return errb.Errorf("addr must not be empty")
	case s.TickRate <= 0 || s.TickRate > 1000:
		return errb.With("tick-rate", s.TickRate).Errorf("tick-rate must be between 1 and 1000")
	case s.InboxSize <= 0:
		return errb.With("inbox-size", s.InboxSize).Errorf("inbox-size must be positive")
	case s.MaxConnsPerIP <= 0 || s.MaxConns <= 0:
		return errb.Errorf("connection limits must be positive")
	}
	switch strings.ToLower(s.LogFormat) {
	case "json", "text":
	default:
		return errb.With("log-format", s.LogFormat).Errorf("log-format must be json or text")
	}
	return nil
}
