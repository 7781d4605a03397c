package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the securitt alarm panel core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Panel    PanelConfig    `yaml:"panel"`
	Sensors  []SensorConfig `yaml:"sensors"`
	Keypads  []KeypadConfig `yaml:"keypads"`
	Sirens   []SirenConfig  `yaml:"sirens"`
	Keyfobs  []KeyfobConfig `yaml:"keyfobs"`
	Buttons  []ButtonConfig `yaml:"buttons"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
}

// MQTTConfig contains bus connection settings. Identity is stable for the
// process lifetime; a reload must never replace these values.
type MQTTConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	QoS                byte   `yaml:"qos"`
	ClientID           string `yaml:"client_id"`
	BaseTopic          string `yaml:"base_topic"`
	GatewayTopicPrefix string `yaml:"gateway_topic_prefix"`
}

// PanelConfig contains the accepted codes and per-mode timings.
type PanelConfig struct {
	Codes      map[int]string `yaml:"codes"`
	ArmedHome  ModeTimings    `yaml:"armed_home"`
	ArmedNight ModeTimings    `yaml:"armed_night"`
	ArmedAway  ModeTimings    `yaml:"armed_away"`
}

// ModeTimings holds the exit/entry/alarm durations for one armed mode.
// All values are seconds; zero bypasses the corresponding delay.
type ModeTimings struct {
	ExitDelay  int `yaml:"exit_delay"`
	EntryDelay int `yaml:"entry_delay"`
	AlarmTime  int `yaml:"alarm_time"`
}

// SensorConfig describes one zone sensor.
type SensorConfig struct {
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"` // "contact" or "motion"
	Active          []string `yaml:"active"` // ["always"] or a list of armed modes
	Instant         bool     `yaml:"instant"`
	TamperMonitored bool     `yaml:"tamper_monitored"`
}

// ActiveAlways reports whether the sensor is qualified in every armed mode.
func (s SensorConfig) ActiveAlways() bool {
	for _, a := range s.Active {
		if a == "always" {
			return true
		}
	}
	return false
}

// ActiveIn reports whether the sensor is qualified while the panel is in mode.
func (s SensorConfig) ActiveIn(mode string) bool {
	if s.ActiveAlways() {
		return true
	}
	for _, a := range s.Active {
		if a == mode {
			return true
		}
	}
	return false
}

// KeypadConfig is identity-only; keypads are actuated by LED-mode commands.
type KeypadConfig struct {
	Name string `yaml:"name"`
}

// SirenConfig is identity-only; sirens are actuated by start/stop commands.
type SirenConfig struct {
	Name string `yaml:"name"`
}

// KeyfobConfig describes one keyfob and the modes it is permitted to request.
type KeyfobConfig struct {
	Name         string   `yaml:"name"`
	Enabled      bool     `yaml:"enabled"`
	AllowedModes []string `yaml:"allowed_modes"`
}

// ButtonConfig maps input gestures (single/double) to an outcome label.
type ButtonConfig struct {
	Name    string            `yaml:"name"`
	Enabled bool              `yaml:"enabled"`
	Actions map[string]string `yaml:"actions"`
}

// NotifyConfig configures the optional Gotify-compatible webhook sink.
type NotifyConfig struct {
	GotifyURL   string `yaml:"gotify_url"`
	GotifyToken string `yaml:"gotify_token"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `yaml:"log_level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	RetainDays int    `yaml:"retain_days"`
}

// DatabaseConfig contains SQLite audit-log database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains optional transition-metric telemetry settings.
// Disabled by default; writes are fire-and-forget and never block the
// dispatch loop.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SECURITT_SECTION_KEY
// For example: SECURITT_DATABASE_PATH, SECURITT_MQTT_HOST
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Reload re-parses path but preserves the receiver's bus connection
// parameters, per spec: bus identity is stable for the process lifetime.
func Reload(path string, current *Config) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.MQTT = current.MQTT
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Host:               "localhost",
			Port:               1883,
			QoS:                1,
			ClientID:           "securitt",
			BaseTopic:          "securitt",
			GatewayTopicPrefix: "gateway",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			RetainDays: 14,
		},
		Database: DatabaseConfig{
			Path:        "./data/securitt.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SECURITT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SECURITT_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	if v := os.Getenv("SECURITT_MQTT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Port = n
		}
	}
	if v := os.Getenv("SECURITT_MQTT_USER"); v != "" {
		cfg.MQTT.User = v
	}
	if v := os.Getenv("SECURITT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("SECURITT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SECURITT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("SECURITT_NOTIFY_GOTIFY_TOKEN"); v != "" {
		cfg.Notify.GotifyToken = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.MQTT.Host == "" {
		errs = append(errs, "mqtt.host is required")
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.BaseTopic == "" {
		errs = append(errs, "mqtt.base_topic is required")
	}
	if c.MQTT.GatewayTopicPrefix == "" {
		errs = append(errs, "mqtt.gateway_topic_prefix is required")
	}

	if len(c.Panel.Codes) == 0 {
		errs = append(errs, "panel.codes must have at least one entry")
	}

	if len(c.Sensors) == 0 {
		errs = append(errs, "sensors must have at least one entry")
	}
	for _, s := range c.Sensors {
		if s.Name == "" {
			errs = append(errs, "sensors: name is required")
		}
		if s.Type != "contact" && s.Type != "motion" {
			errs = append(errs, fmt.Sprintf("sensors[%s]: type must be contact or motion", s.Name))
		}
	}

	if len(c.Keypads) == 0 {
		errs = append(errs, "keypads must have at least one entry")
	}
	if len(c.Sirens) == 0 {
		errs = append(errs, "sirens must have at least one entry")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
