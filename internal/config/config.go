// Package config loads term-list settings.
//
// Precedence (highest to lowest):
//  1. Command-line flags that were explicitly set
//  2. Environment variables (TERM_LIST_*)
//  3. Config file
//  4. Built-in defaults
//
// The config file is --config when given, otherwise
// $XDG_CONFIG_HOME/term-list/config.yaml, then ~/.config/term-list/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	BackendGnomeTerminal = "gnome-terminal"
	BackendTmux          = "tmux"

	NotifyInline  = "inline"
	NotifyDesktop = "desktop"

	envPrefix = "TERM_LIST_"
)

// Config holds all term-list settings.
type Config struct {
	// Search provider
	Backend     string `yaml:"backend"`
	BusName     string `yaml:"bus_name"`
	ObjectPath  string `yaml:"object_path"`
	TmuxSocket  string `yaml:"tmux_socket"`
	CallTimeout string `yaml:"call_timeout"` // Go duration, "0" waits forever

	// Panel
	PanelLocation string `yaml:"panel_location"`
	ToggleKey     string `yaml:"toggle_key"`
	Popup         bool   `yaml:"popup"`

	// Display
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Footer  bool   `yaml:"footer"`
	Verbose bool   `yaml:"verbose"`
	Notify  string `yaml:"notify"`

	// Logging and telemetry
	LogFile      string `yaml:"log_file"`
	Trace        bool   `yaml:"trace"`
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"`

	// Set by Validate.
	CallTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the file that was loaded, empty if none.
	ConfigFile string `yaml:"-"`
	// Flags records the flags that were explicitly set.
	Flags map[string]string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Backend:       BackendGnomeTerminal,
		BusName:       "org.gnome.Terminal",
		ObjectPath:    "/org/gnome/Terminal/SearchProvider",
		CallTimeout:   "0",
		PanelLocation: "default",
		ToggleKey:     "ctrl+t",
		Notify:        NotifyInline,
	}
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
)

// setting ties one key to its field, its flag and its environment variable.
type setting struct {
	key   string
	usage string
	kind  kind
	str   *string
	num   *int
	flag  *bool
}

func (s setting) flagName() string { return strings.ReplaceAll(s.key, "_", "-") }

func (s setting) envName() string { return envPrefix + strings.ToUpper(s.key) }

func (c *Config) settings() []setting {
	return []setting{
		{key: "backend", usage: "search provider backend (gnome-terminal|tmux)", kind: kindString, str: &c.Backend},
		{key: "bus_name", usage: "D-Bus name of the terminal's search provider", kind: kindString, str: &c.BusName},
		{key: "object_path", usage: "D-Bus object path of the search provider", kind: kindString, str: &c.ObjectPath},
		{key: "tmux_socket", usage: "path to the tmux socket for the tmux backend", kind: kindString, str: &c.TmuxSocket},
		{key: "call_timeout", usage: "timeout for each provider call (0 waits forever)", kind: kindString, str: &c.CallTimeout},
		{key: "panel_location", usage: "toggle button placement (default|left|far-left)", kind: kindString, str: &c.PanelLocation},
		{key: "toggle_key", usage: "key that opens and closes the menu", kind: kindString, str: &c.ToggleKey},
		{key: "popup", usage: "start open and exit once the menu closes", kind: kindBool, flag: &c.Popup},
		{key: "width", usage: "viewport width in cells (0 uses terminal width)", kind: kindInt, num: &c.Width},
		{key: "height", usage: "viewport height in rows (0 uses terminal height)", kind: kindInt, num: &c.Height},
		{key: "footer", usage: "show the key hint footer", kind: kindBool, flag: &c.Footer},
		{key: "verbose", usage: "show success messages and terminal ids", kind: kindBool, flag: &c.Verbose},
		{key: "notify", usage: "error notifications (inline|desktop)", kind: kindString, str: &c.Notify},
		{key: "log_file", usage: "path to the log file", kind: kindString, str: &c.LogFile},
		{key: "trace", usage: "enable JSON trace logging", kind: kindBool, flag: &c.Trace},
		{key: "otel_endpoint", usage: "OTLP/HTTP endpoint for traces and metrics", kind: kindString, str: &c.OTELEndpoint},
		{key: "otel_headers", usage: "OTLP headers as k=v,k2=v2", kind: kindString, str: &c.OTELHeaders},
	}
}

// Load reads the config file at path (or the default location when path is
// empty) and applies environment overrides from environ.
func Load(path string, environ []string) (*Config, error) {
	cfg := Defaults()
	env := parseEnv(environ)

	file, data, err := findConfigFile(path, env)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", file, err)
		}
		cfg.ConfigFile = file
	case path != "" || !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	mergeEnv(cfg, env)
	return cfg, nil
}

func findConfigFile(path string, env map[string]string) (string, []byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("reading config file: %w", err)
		}
		return path, data, nil
	}
	var candidates []string
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "term-list", "config.yaml"))
	}
	if home := env["HOME"]; home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "term-list", "config.yaml"))
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return candidate, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return "", nil, fs.ErrNotExist
}

// mergeEnv applies TERM_LIST_* variables. Empty values and values that do
// not parse are ignored.
func mergeEnv(cfg *Config, env map[string]string) {
	for _, s := range cfg.settings() {
		v, ok := env[s.envName()]
		if !ok {
			continue
		}
		switch s.kind {
		case kindString:
			if v != "" {
				*s.str = v
			}
		case kindInt:
			*s.num = envOrInt(env, s.envName(), *s.num)
		case kindBool:
			*s.flag = envOrBool(env, s.envName(), *s.flag)
		}
	}
	if cfg.OTELEndpoint == "" {
		cfg.OTELEndpoint = env["OTEL_EXPORTER_OTLP_ENDPOINT"]
	}
	if cfg.OTELHeaders == "" {
		cfg.OTELHeaders = env["OTEL_EXPORTER_OTLP_HEADERS"]
	}
}

// BindFlags registers one flag per setting on flags.
func BindFlags(flags *pflag.FlagSet) {
	defaults := Defaults()
	for _, s := range defaults.settings() {
		switch s.kind {
		case kindString:
			flags.String(s.flagName(), *s.str, s.usage)
		case kindInt:
			flags.Int(s.flagName(), *s.num, s.usage)
		case kindBool:
			flags.Bool(s.flagName(), *s.flag, s.usage)
		}
	}
}

// ApplyFlags copies every flag the user set on flags into cfg.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	if c.Flags == nil {
		c.Flags = make(map[string]string)
	}
	for _, s := range c.settings() {
		name := s.flagName()
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		var err error
		switch s.kind {
		case kindString:
			*s.str, err = flags.GetString(name)
		case kindInt:
			*s.num, err = flags.GetInt(name)
		case kindBool:
			*s.flag, err = flags.GetBool(name)
		}
		if err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
		c.Flags[name] = flags.Lookup(name).Value.String()
	}
	return nil
}

// Validate checks enumerations and ranges and resolves CallTimeoutDuration.
func Validate(cfg *Config) error {
	switch cfg.Backend {
	case BackendGnomeTerminal, BackendTmux:
	default:
		return fmt.Errorf("backend must be %s or %s (got %q)", BackendGnomeTerminal, BackendTmux, cfg.Backend)
	}
	switch cfg.PanelLocation {
	case "default", "left", "far-left":
	default:
		return fmt.Errorf("panel_location must be default, left or far-left (got %q)", cfg.PanelLocation)
	}
	switch cfg.Notify {
	case NotifyInline, NotifyDesktop:
	default:
		return fmt.Errorf("notify must be %s or %s (got %q)", NotifyInline, NotifyDesktop, cfg.Notify)
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.Width)
	}
	if cfg.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.Height)
	}
	if strings.TrimSpace(cfg.ToggleKey) == "" {
		return errors.New("toggle_key must not be empty")
	}
	if cfg.Backend == BackendGnomeTerminal {
		if cfg.BusName == "" || cfg.ObjectPath == "" {
			return errors.New("bus_name and object_path are required for the gnome-terminal backend")
		}
		if !strings.HasPrefix(cfg.ObjectPath, "/") {
			return fmt.Errorf("object_path must be absolute (got %q)", cfg.ObjectPath)
		}
	}
	timeout, err := parseTimeout(cfg.CallTimeout)
	if err != nil {
		return fmt.Errorf("invalid call_timeout %q: %w", cfg.CallTimeout, err)
	}
	cfg.CallTimeoutDuration = timeout
	return nil
}

// parseTimeout parses a duration. "", "0" and "off" disable the timeout.
func parseTimeout(s string) (time.Duration, error) {
	switch strings.TrimSpace(s) {
	case "", "0", "off":
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
