package registry

import (
	"sync"

	"github.com/tediore/securitt/internal/infrastructure/config"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the current configuration snapshot behind a read-mostly
// lock. Reload swaps the entire snapshot atomically so in-flight readers
// always see a consistent set of devices, codes, and timings.
type Registry struct {
	mu     sync.RWMutex
	cfg    *config.Config
	path   string
	logger Logger
}

// Load reads path and returns a Registry backed by the result.
func Load(path string) (*Registry, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Registry{cfg: cfg, path: path, logger: noopLogger{}}, nil
}

// SetLogger sets the logger used for reload diagnostics.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Reload re-reads the backing file and swaps the device inventory, codes,
// and panel timings. Bus connection parameters are preserved from the
// current snapshot. On error the prior snapshot is kept in place and the
// error is returned for the caller to log.
func (r *Registry) Reload() error {
	r.mu.RLock()
	current := r.cfg
	r.mu.RUnlock()

	cfg, err := config.Reload(r.path, current)
	if err != nil {
		r.logger.Error("reload failed, keeping prior registry", "error", err)
		return err
	}

	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()

	r.logger.Info("registry reloaded", "sensors", len(cfg.Sensors), "keypads", len(cfg.Keypads))
	return nil
}

// snapshot returns the current config pointer under a read lock. The
// pointer itself is never mutated in place; reload always allocates a new
// one, so callers may read it freely after the lock is released.
func (r *Registry) snapshot() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// MQTT returns the bus connection parameters.
func (r *Registry) MQTT() config.MQTTConfig {
	return r.snapshot().MQTT
}

// Notify returns the optional notification sink configuration.
func (r *Registry) Notify() config.NotifyConfig {
	return r.snapshot().Notify
}

// Sensor looks up a sensor by device name.
func (r *Registry) Sensor(name string) (config.SensorConfig, bool) {
	for _, s := range r.snapshot().Sensors {
		if s.Name == name {
			return s, true
		}
	}
	return config.SensorConfig{}, false
}

// Keypads returns every configured keypad.
func (r *Registry) Keypads() []config.KeypadConfig {
	return r.snapshot().Keypads
}

// Keypad looks up a keypad by device name.
func (r *Registry) Keypad(name string) (config.KeypadConfig, bool) {
	for _, k := range r.snapshot().Keypads {
		if k.Name == name {
			return k, true
		}
	}
	return config.KeypadConfig{}, false
}

// Sirens returns every configured siren.
func (r *Registry) Sirens() []config.SirenConfig {
	return r.snapshot().Sirens
}

// Keyfob looks up a keyfob by device name.
func (r *Registry) Keyfob(name string) (config.KeyfobConfig, bool) {
	for _, k := range r.snapshot().Keyfobs {
		if k.Name == name {
			return k, true
		}
	}
	return config.KeyfobConfig{}, false
}

// Button looks up a button by device name.
func (r *Registry) Button(name string) (config.ButtonConfig, bool) {
	for _, b := range r.snapshot().Buttons {
		if b.Name == name {
			return b, true
		}
	}
	return config.ButtonConfig{}, false
}

// CodeName resolves an accepted PIN to its audit-log name.
func (r *Registry) CodeName(code int) (string, bool) {
	name, ok := r.snapshot().Panel.Codes[code]
	return name, ok
}

// Timings returns the exit/entry/alarm durations for an armed mode.
func (r *Registry) Timings(mode string) (config.ModeTimings, bool) {
	p := r.snapshot().Panel
	switch mode {
	case "armed_home":
		return p.ArmedHome, true
	case "armed_night":
		return p.ArmedNight, true
	case "armed_away":
		return p.ArmedAway, true
	default:
		return config.ModeTimings{}, false
	}
}

// MaxAlarmTime returns the largest alarm_time configured across all armed
// modes. Used as the siren duration when a panic is raised from a state
// that has no armed mode to restore to (disarmed, arming, triggered).
func (r *Registry) MaxAlarmTime() int {
	p := r.snapshot().Panel
	max := p.ArmedHome.AlarmTime
	if p.ArmedNight.AlarmTime > max {
		max = p.ArmedNight.AlarmTime
	}
	if p.ArmedAway.AlarmTime > max {
		max = p.ArmedAway.AlarmTime
	}
	return max
}

// IsKnownDevice reports whether name belongs to any sensor, keypad,
// keyfob, or button in the current snapshot — the union the event router
// subscribes to under the gateway topic prefix.
func (r *Registry) IsKnownDevice(name string) bool {
	cfg := r.snapshot()
	for _, s := range cfg.Sensors {
		if s.Name == name {
			return true
		}
	}
	for _, k := range cfg.Keypads {
		if k.Name == name {
			return true
		}
	}
	for _, k := range cfg.Keyfobs {
		if k.Name == name {
			return true
		}
	}
	for _, b := range cfg.Buttons {
		if b.Name == name {
			return true
		}
	}
	return false
}

// DeviceNames returns the union of sensor, keypad, keyfob, and button
// names in the current snapshot, used to establish subscriptions.
func (r *Registry) DeviceNames() []string {
	cfg := r.snapshot()
	names := make([]string, 0, len(cfg.Sensors)+len(cfg.Keypads)+len(cfg.Keyfobs)+len(cfg.Buttons))
	for _, s := range cfg.Sensors {
		names = append(names, s.Name)
	}
	for _, k := range cfg.Keypads {
		names = append(names, k.Name)
	}
	for _, k := range cfg.Keyfobs {
		names = append(names, k.Name)
	}
	for _, b := range cfg.Buttons {
		names = append(names, b.Name)
	}
	return names
}
