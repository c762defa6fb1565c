package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups work on hosts without zoneinfo

	"github.com/spf13/viper"

	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/instrumentation"
	"github.com/teemow/inboxmeet/internal/meeting"
)

// EnvPrefix prefixes every environment override, e.g.
// INBOXMEET_WORKING_HOURS_START=08:30.
const EnvPrefix = "INBOXMEET"

// Config is the runtime configuration of inboxmeet.
type Config struct {
	// Account selects the Google token file, see google.HasTokenForAccount.
	Account string `mapstructure:"account"`

	// Timezone is the IANA zone used for dates and times without an
	// explicit zone.
	Timezone string `mapstructure:"timezone"`

	CalendarID   string       `mapstructure:"calendar_id"`
	WorkingHours WorkingHours `mapstructure:"working_hours"`

	// MaxAlternatives caps the alternatives offered on conflict. Zero keeps
	// the default and a negative value disables the cap.
	MaxAlternatives int `mapstructure:"max_alternatives"`

	// DraftReplies saves a Gmail draft to the organizer on conflict.
	DraftReplies bool `mapstructure:"draft_replies"`

	// SendUpdates is passed to the Calendar API when booking.
	SendUpdates string `mapstructure:"send_updates"`

	Google          Google          `mapstructure:"google"`
	Signal          Signal          `mapstructure:"signal"`
	Watch           Watch           `mapstructure:"watch"`
	Log             Log             `mapstructure:"log"`
	Instrumentation Instrumentation `mapstructure:"instrumentation"`
}

// WorkingHours holds the daily window as "15:04" clock strings.
type WorkingHours struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type Google struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Signal configures chat forwarding. Forwarding is off while Account is empty.
type Signal struct {
	Account   string `mapstructure:"account"`
	Recipient string `mapstructure:"recipient"`
	Group     string `mapstructure:"group"`
}

// Watch configures the inbox watcher.
type Watch struct {
	Query              string        `mapstructure:"query"`
	Interval           time.Duration `mapstructure:"interval"`
	MaxResults         int64         `mapstructure:"max_results"`
	ImportanceKeywords []string      `mapstructure:"importance_keywords"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Instrumentation struct {
	Enabled           bool    `mapstructure:"enabled"`
	MetricsExporter   string  `mapstructure:"metrics_exporter"`
	TracingExporter   string  `mapstructure:"tracing_exporter"`
	OTLPEndpoint      string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure      bool    `mapstructure:"otlp_insecure"`
	TraceSamplingRate float64 `mapstructure:"trace_sampling_rate"`
	DetailedLabels    bool    `mapstructure:"detailed_labels"`
	AuditLogging      bool    `mapstructure:"audit_logging"`
	MetricsAddr       string  `mapstructure:"metrics_addr"`
}

// DefaultImportanceKeywords mark inbox messages that are forwarded to chat.
var DefaultImportanceKeywords = []string{"urgent", "important", "asap", "critical", "emergency"}

func setDefaults(v *viper.Viper) {
	inst := instrumentation.DefaultConfig()

	v.SetDefault("account", google.DefaultAccount)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("calendar_id", "primary")
	v.SetDefault("working_hours.start", "09:00")
	v.SetDefault("working_hours.end", "17:00")
	v.SetDefault("max_alternatives", meeting.DefaultMaxAlternatives)
	v.SetDefault("draft_replies", true)
	v.SetDefault("send_updates", "all")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("signal.account", "")
	v.SetDefault("signal.recipient", "")
	v.SetDefault("signal.group", "")
	v.SetDefault("watch.query", "is:unread in:inbox newer_than:2d")
	v.SetDefault("watch.interval", 5*time.Minute)
	v.SetDefault("watch.max_results", 25)
	v.SetDefault("watch.importance_keywords", DefaultImportanceKeywords)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("instrumentation.enabled", inst.Enabled)
	v.SetDefault("instrumentation.metrics_exporter", inst.MetricsExporter)
	v.SetDefault("instrumentation.tracing_exporter", inst.TracingExporter)
	v.SetDefault("instrumentation.otlp_endpoint", inst.OTLPEndpoint)
	v.SetDefault("instrumentation.otlp_insecure", inst.OTLPInsecure)
	v.SetDefault("instrumentation.trace_sampling_rate", inst.TraceSamplingRate)
	v.SetDefault("instrumentation.detailed_labels", inst.DetailedLabels)
	v.SetDefault("instrumentation.audit_logging", inst.AuditLogging.Enabled)
	v.SetDefault("instrumentation.metrics_addr", ":9090")
}

// DefaultPath returns $XDG_CONFIG_HOME/inboxmeet/config.yaml, or "" when no
// config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inboxmeet", "config.yaml")
}

// Load reads the YAML file at path, then applies INBOXMEET_* environment
// overrides on top of the defaults. An empty path tries DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		case explicit || !errors.Is(statErr, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config %s: %w", path, statErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.MeetingWorkingHours(); err != nil {
		return err
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval)
	}
	if c.Signal.Account != "" && (c.Signal.Recipient == "") == (c.Signal.Group == "") {
		return errors.New("signal: exactly one of recipient and group must be set")
	}
	return nil
}

// Location loads Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MeetingWorkingHours converts the configured window.
func (c *Config) MeetingWorkingHours() (meeting.WorkingHours, error) {
	start, err := clockOffset(c.WorkingHours.Start)
	if err != nil {
		return meeting.WorkingHours{}, fmt.Errorf("working_hours.start: %w", err)
	}
	end, err := clockOffset(c.WorkingHours.End)
	if err != nil {
		return meeting.WorkingHours{}, fmt.Errorf("working_hours.end: %w", err)
	}
	hours := meeting.WorkingHours{Start: start, End: end}
	if err := hours.Validate(); err != nil {
		return meeting.WorkingHours{}, err
	}
	return hours, nil
}

func clockOffset(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q, want HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// GoogleCredentials returns the OAuth client of the Google section.
func (c *Config) GoogleCredentials() google.Credentials {
	return google.Credentials{ClientID: c.Google.ClientID, ClientSecret: c.Google.ClientSecret}
}

// InstrumentationConfig maps the instrumentation section onto the provider
// config.
func (c *Config) InstrumentationConfig(version string) instrumentation.Config {
	cfg := instrumentation.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Enabled = c.Instrumentation.Enabled
	cfg.MetricsExporter = c.Instrumentation.MetricsExporter
	cfg.TracingExporter = c.Instrumentation.TracingExporter
	cfg.OTLPEndpoint = c.Instrumentation.OTLPEndpoint
	cfg.OTLPInsecure = c.Instrumentation.OTLPInsecure
	cfg.TraceSamplingRate = c.Instrumentation.TraceSamplingRate
	cfg.DetailedLabels = c.Instrumentation.DetailedLabels
	cfg.AuditLogging.Enabled = c.Instrumentation.AuditLogging
	return cfg
}
