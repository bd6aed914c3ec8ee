// Package config loads studiodesk settings from defaults, an optional YAML
// file and STUDIODESK_* environment variables, in increasing precedence.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/parser"
	"github.com/spf13/viper"
)

const (
	// AppName names the config and data directories.
	AppName = "studiodesk"
	// EnvPrefix prefixes environment overrides: mirror.token is STUDIODESK_MIRROR_TOKEN.
	EnvPrefix = "STUDIODESK"

	PhotosLocal  = "local"
	PhotosRemote = "remote"

	DefaultReportTitle = "Agenda Semanal - Estúdio de Pilates"
)

// Config holds every setting.
type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Access   AccessConfig   `mapstructure:"access"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Photos   PhotosConfig   `mapstructure:"photos"`
	Report   ReportConfig   `mapstructure:"report"`
	Log      LogConfig      `mapstructure:"log"`

	v *viper.Viper
}

// AccessConfig configures the shared access key. KeyHash, a bcrypt hash,
// wins over Key. With neither set the gate is open.
type AccessConfig struct {
	Key     string `mapstructure:"key"`
	KeyHash string `mapstructure:"key_hash"`
}

// ScheduleConfig configures the agenda.
type ScheduleConfig struct {
	// StrictHours rejects hours above 23 and minutes above 59.
	StrictHours bool `mapstructure:"strict_hours"`
}

// MirrorConfig configures the GitHub repository used as remote storage.
type MirrorConfig struct {
	Enabled           bool            `mapstructure:"enabled"`
	Owner             string          `mapstructure:"owner"`
	Repo              string          `mapstructure:"repo"`
	Branch            string          `mapstructure:"branch"`
	Token             string          `mapstructure:"token"`
	BaseURL           string          `mapstructure:"base_url"`
	Timeout           time.Duration   `mapstructure:"timeout"`
	MaxRetries        int             `mapstructure:"max_retries"`
	RetryDelays       []time.Duration `mapstructure:"retry_delays"`
	RequestsPerSecond float64         `mapstructure:"requests_per_second"`
}

// PhotosConfig selects where photos are read from.
type PhotosConfig struct {
	Mode string `mapstructure:"mode"`
}

// ReportConfig configures the PDF export.
type ReportConfig struct {
	Title string `mapstructure:"title"`
}

// LogConfig configures logging when --debug is not given.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Dir returns the default config directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultFile returns the default config file path.
func DefaultFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", filepath.Join(xdg.DataHome, AppName))
	v.SetDefault("access.key", "")
	v.SetDefault("access.key_hash", "")
	v.SetDefault("schedule.strict_hours", true)
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.owner", "")
	v.SetDefault("mirror.repo", "")
	v.SetDefault("mirror.branch", "main")
	v.SetDefault("mirror.token", "")
	v.SetDefault("mirror.base_url", "https://api.github.com")
	v.SetDefault("mirror.timeout", 30*time.Second)
	v.SetDefault("mirror.max_retries", 3)
	v.SetDefault("mirror.retry_delays", []time.Duration{0, time.Second, 3 * time.Second})
	v.SetDefault("mirror.requests_per_second", 2.0)
	v.SetDefault("photos.mode", PhotosLocal)
	v.SetDefault("report.title", DefaultReportTitle)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
}

// Load reads the configuration. An empty file means DefaultFile, which may
// be absent; an explicitly named file must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, err
		}
		logging.DebugLog("no config file, using defaults and environment", logging.KeyPath, DefaultFile())
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if strings.HasPrefix(c.DataDir, "~"+string(os.PathSeparator)) {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, c.DataDir[2:])
		}
	}
	c.Photos.Mode = strings.ToLower(strings.TrimSpace(c.Photos.Mode))
	if c.Photos.Mode != PhotosRemote {
		c.Photos.Mode = PhotosLocal
	}
	c.Mirror.BaseURL = strings.TrimRight(c.Mirror.BaseURL, "/")
	if c.Mirror.Branch == "" {
		c.Mirror.Branch = "main"
	}
	if c.Report.Title == "" {
		c.Report.Title = DefaultReportTitle
	}
}

// File returns the config file in use, or "" when none was read.
func (c *Config) File() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// ClockPolicy returns the time parsing policy for the agenda.
func (c *Config) ClockPolicy() parser.ClockPolicy {
	if c.Schedule.StrictHours {
		return parser.ClockStrict
	}
	return parser.ClockLenient
}

// MirrorConfigured reports whether the mirror is enabled and has a target.
func (c *Config) MirrorConfigured() bool {
	return c.Mirror.Enabled && c.Mirror.Owner != "" && c.Mirror.Repo != ""
}

// Paths inside DataDir.

func (c *Config) AgendaPath() string      { return filepath.Join(c.DataDir, "data", "agenda.csv") }
func (c *Config) AssessmentsPath() string { return filepath.Join(c.DataDir, "data", "avaliacoes.csv") }
func (c *Config) PhotoTablePath() string  { return filepath.Join(c.DataDir, "data", "imagens.csv") }
func (c *Config) PhotoDir() string        { return filepath.Join(c.DataDir, "imagens") }

// Settings returns all resolved settings with secrets masked, ready to be
// printed by "config show".
func (c *Config) Settings() map[string]any {
	if c.v == nil {
		return map[string]any{}
	}
	return logging.MaskMap(printable(c.v.AllSettings()))
}

func printable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case map[string]any:
			out[k] = printable(t)
		case time.Duration:
			out[k] = t.String()
		case []time.Duration:
			s := make([]string, len(t))
			for i, d := range t {
				s[i] = d.String()
			}
			out[k] = s
		default:
			out[k] = val
		}
	}
	return out
}
