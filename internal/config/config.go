package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

const (
	// ConfigName is the layout file name without extension.
	ConfigName = "viewlets"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "VIEWLETS"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:8080"

	// DefaultPingInterval is how often the server pings idle sessions.
	DefaultPingInterval = 30 * time.Second

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Extensions lists the layout file formats, in lookup order.
var Extensions = []string{"yaml", "yml", "json", "toml"}

// overrideKeys maps normalized override keys to viewlet configuration keys.
var overrideKeys = map[string]string{
	"name":             viewlet.KeyName,
	"template":         viewlet.KeyTemplate,
	"template_wrapper": viewlet.KeyTemplateWrapper,
	"templatewrapper":  viewlet.KeyTemplateWrapper,
	"slot":             viewlet.KeySlot,
	"container":        viewlet.KeyContainer,
}

// Layout is a view container layout file.
type Layout struct {
	// Name labels the layout in logs and metrics.
	Name string `mapstructure:"name" yaml:"name,omitempty"`

	// Template is the main template markup.
	Template string `mapstructure:"template" yaml:"template,omitempty"`

	// TemplateData is passed to the main template.
	TemplateData map[string]any `mapstructure:"template_data" yaml:"template_data,omitempty"`

	// ViewletContainer selects the insertion point for non-slotted viewlets.
	ViewletContainer string `mapstructure:"viewlet_container" yaml:"viewlet_container,omitempty"`

	// Slots maps slot names to target selectors.
	Slots map[string]string `mapstructure:"slots" yaml:"slots,omitempty"`

	// Order is the render order of non-slotted viewlets.
	Order []string `mapstructure:"order" yaml:"order,omitempty"`

	// Viewlets maps viewlet names to their overrides. Values are bare or
	// {value, writable} descriptors.
	Viewlets map[string]map[string]any `mapstructure:"viewlets" yaml:"viewlets"`

	// Record is the sample record rendered by the CLI and served live.
	Record RecordConfig `mapstructure:"record" yaml:"record"`

	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`

	// configPath stores the path where the layout was loaded from.
	configPath string
}

// RecordConfig describes the sample record.
type RecordConfig struct {
	ID    string         `mapstructure:"id" yaml:"id"`
	Attrs map[string]any `mapstructure:"attrs" yaml:"attrs,omitempty"`
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// PingInterval is how often idle sessions are pinged (e.g., "30s").
	PingInterval time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a layout with default values and no viewlets.
func New() *Layout {
	return &Layout{
		ViewletContainer: container.DefaultViewletContainer,
		Server: ServerConfig{
			Addr:         DefaultAddr,
			PingInterval: DefaultPingInterval,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// newViper returns a viper instance with the layout defaults and
// environment overrides installed.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("viewlet_container", container.DefaultViewletContainer)
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.ping_interval", DefaultPingInterval)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the layout file from dir. It looks for viewlets.yaml,
// viewlets.yml, viewlets.json and viewlets.toml, in that order.
func Load(dir string) (*Layout, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigName+"."+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("V004").
		WithDetail("No " + ConfigName + ".{yaml,json,toml} found in " + dir).
		WithSuggestion("Run 'viewlets layout --init' to write an example layout")
}

// LoadFile reads the layout at path. The format follows the extension.
func LoadFile(path string) (*Layout, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("V004").WithSubject(path).WithDetail("file not found")
		}
		return nil, errors.New("V004").WithSubject(path).Wrap(err)
	}
	l, err := decode(v)
	if err != nil {
		return nil, errors.FromError(err, "V004").WithSubject(path)
	}
	l.configPath = path
	return l, nil
}

// LoadReader reads a layout in the given format ("yaml", "json", "toml").
func LoadReader(r io.Reader, format string) (*Layout, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.New("V004").Wrap(err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Layout, error) {
	l := New()
	if err := v.Unmarshal(l); err != nil {
		return nil, errors.New("V004").WithDetail("unmarshal layout: " + err.Error())
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// applyDefaults fills in default values for empty fields.
func (l *Layout) applyDefaults() {
	if l.ViewletContainer == "" {
		l.ViewletContainer = container.DefaultViewletContainer
	}
	if l.Server.Addr == "" {
		l.Server.Addr = DefaultAddr
	}
	if l.Server.PingInterval <= 0 {
		l.Server.PingInterval = DefaultPingInterval
	}
	if l.Log.Level == "" {
		l.Log.Level = DefaultLogLevel
	}
	if l.Record.ID == "" {
		l.Record.ID = l.Name
	}
}

// Validate checks that the layout describes a usable container.
func (l *Layout) Validate() error {
	if len(l.Viewlets) == 0 {
		return errors.New("V001").WithSuggestion("Add at least one entry under 'viewlets'")
	}
	for _, name := range l.Order {
		if _, ok := l.Viewlets[name]; !ok {
			return errors.New("V007").WithSubject(name)
		}
	}
	for slot, sel := range l.Slots {
		if strings.TrimSpace(sel) == "" {
			return errors.New("V004").WithSubject(slot).WithDetail("slot selector is empty")
		}
	}
	if _, err := ParseLevel(l.Log.Level); err != nil {
		return err
	}
	return nil
}

// Path returns the path where the layout was loaded from.
func (l *Layout) Path() string {
	return l.configPath
}

// ViewletConfig converts the viewlet descriptors into a viewlet.Config
// with canonical override keys. Each call returns a fresh map.
func (l *Layout) ViewletConfig() viewlet.Config {
	cfg := make(viewlet.Config, len(l.Viewlets))
	for name, overrides := range l.Viewlets {
		o := make(viewlet.Overrides, len(overrides))
		for key, val := range overrides {
			if canonical, ok := overrideKeys[strings.ToLower(key)]; ok {
				key = canonical
			}
			o[key] = val
		}
		cfg[name] = o
	}
	return cfg
}

// NewRecord builds the sample record.
func (l *Layout) NewRecord() *model.Record {
	return model.NewRecord(l.Record.ID, l.Record.Attrs)
}

// ContainerConfig returns the container configuration for m.
func (l *Layout) ContainerConfig(m model.Model) container.Config {
	cfg := container.Config{
		Viewlets:         l.ViewletConfig(),
		TemplateData:     l.TemplateData,
		ViewletContainer: l.ViewletContainer,
		Slots:            l.Slots,
		Order:            l.Order,
		Model:            m,
	}
	if l.Template != "" {
		cfg.Template = l.Template
	}
	return cfg
}

// Expanded returns the layout with every viewlet override in descriptor
// form, ready to be written back out.
func (l *Layout) Expanded() *Layout {
	out := *l
	out.Viewlets = make(map[string]map[string]any, len(l.Viewlets))
	for name, o := range l.ViewletConfig().Expand() {
		entry := make(map[string]any, len(o))
		for key, val := range o {
			d := viewlet.DescriptorOf(val)
			entry[key] = map[string]any{"value": d.Value, "writable": d.Writable}
		}
		out.Viewlets[name] = entry
	}
	return &out
}

// WriteYAML writes the layout as YAML.
func (l *Layout) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return errors.New("V004").Wrap(err)
	}
	return enc.Close()
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, errors.New("V004").
			WithSubject("log.level").
			WithDetail(fmt.Sprintf("unknown level %q", level)).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	return l, nil
}

// Exists reports whether dir contains a layout file.
func Exists(dir string) bool {
	for _, ext := range Extensions {
		if _, err := os.Stat(filepath.Join(dir, ConfigName+"."+ext)); err == nil {
			return true
		}
	}
	return false
}

// FindRoot walks up from startDir to the first directory with a layout
// file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("V004").
				WithDetail("No " + ConfigName + " layout found in " + startDir + " or any parent directory").
				WithSuggestion("Pass --layout or run 'viewlets layout --init'")
		}
		dir = parent
	}
}
