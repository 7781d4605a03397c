package panel

import (
	"context"
	"fmt"

	"github.com/tediore/securitt/internal/alarm"
	"github.com/tediore/securitt/internal/audit"
	"github.com/tediore/securitt/internal/infrastructure/config"
	"github.com/tediore/securitt/internal/infrastructure/database"
	"github.com/tediore/securitt/internal/infrastructure/influxdb"
	"github.com/tediore/securitt/internal/infrastructure/mqtt"
	"github.com/tediore/securitt/internal/notify"
	"github.com/tediore/securitt/internal/registry"
	"github.com/tediore/securitt/internal/router"
	"github.com/tediore/securitt/internal/statestore"
	"github.com/tediore/securitt/internal/timer"
)

// statePath is where the current/previous state pair persists between
// restarts, alongside the SQLite database.
const statePath = "./data/state.json"

// Logger is the subset of logging.Logger the panel and its collaborators
// depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Panel owns the full domain: registry, state machine, timers, and state
// store. It holds a bus adapter for the MQTT transport, but the adapter is
// the only piece of Panel that knows about MQTT.
type Panel struct {
	logger Logger

	db     *database.DB
	influx *influxdb.Client
	client *mqtt.Client
	reg    *registry.Registry
	timers *timer.Manager

	machine *alarm.Machine
	store   *statestore.Store
	router  *router.Router
	notify  *notify.Notifier
}

// New wires together every collaborator named in configPath's config file:
// the SQLite audit database (with migrations applied), the optional
// InfluxDB telemetry client, the MQTT bus client, the device registry, the
// timer manager, the state machine, the state store, and the event
// router. The state machine resumes from whatever current/previous pair
// was last persisted to disk.
func New(ctx context.Context, configPath string, logger Logger) (*Panel, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	reg, err := registry.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	reg.SetLogger(logger)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			db.Close() //nolint:errcheck // best effort cleanup on error path
			return nil, fmt.Errorf("connecting to influxdb: %w", err)
		}
	}

	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		if influxClient != nil {
			influxClient.Close()
		}
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("connecting to mqtt broker: %w", err)
	}
	client.SetLogger(logger)

	auditRepo := audit.NewSQLiteRepository(db.DB)
	store := statestore.New(statePath, client, auditRepo, influxClient)
	store.SetLogger(logger)

	timers := timer.NewManager()
	actuator := newMQTTActuator(client, reg)
	machine := alarm.New(reg, timers, actuator, store)
	machine.SetLogger(logger)

	notifier := notify.New(cfg.Notify.GotifyURL, cfg.Notify.GotifyToken)
	machine.SetNotifier(notifier)

	current, previous, err := statestore.Load(statePath)
	if err != nil {
		logger.Warn("state file load failed, resuming disarmed", "error", err)
		current, previous = alarm.Disarmed, alarm.Disarmed
	}
	machine.Resume(current, previous)

	r := router.New(reg, machine)
	r.SetLogger(logger)

	return &Panel{
		logger:  logger,
		db:      db,
		influx:  influxClient,
		client:  client,
		reg:     reg,
		timers:  timers,
		machine: machine,
		store:   store,
		router:  r,
		notify:  notifier,
	}, nil
}

// Run subscribes the router to the bus and runs the state machine's
// dispatch loop until ctx is cancelled.
func (p *Panel) Run(ctx context.Context) error {
	if err := p.router.Subscribe(p.client); err != nil {
		return fmt.Errorf("subscribing router: %w", err)
	}
	return p.machine.Run(ctx)
}

// HealthCheck reports whether the panel's durable dependencies (bus,
// database) are reachable.
func (p *Panel) HealthCheck(ctx context.Context) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("mqtt broker not connected")
	}
	if err := p.db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// Close releases every resource acquired by New, in reverse order: any
// pending timers are cancelled first so no callback fires into a closing
// machine, then the bus connection (which publishes offline status), then
// telemetry, then the database.
func (p *Panel) Close() error {
	p.timers.CancelAll()

	if err := p.client.Close(); err != nil {
		p.logger.Warn("mqtt close failed", "error", err)
	}

	if p.influx != nil {
		if err := p.influx.Close(); err != nil {
			p.logger.Warn("influxdb close failed", "error", err)
		}
	}

	if err := p.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
