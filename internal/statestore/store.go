package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tediore/securitt/internal/alarm"
	"github.com/tediore/securitt/internal/audit"
	"github.com/tediore/securitt/internal/infrastructure/influxdb"
	"github.com/tediore/securitt/internal/infrastructure/mqtt"
)

// auditTimeout bounds how long a best-effort audit insert may take
// before the dispatch loop moves on.
const auditTimeout = 3 * time.Second

// PersistedState is the on-disk record of the panel's current and
// previous alarm state.
type PersistedState struct {
	CurrentState  string `json:"current_state"`
	PreviousState string `json:"previous_state"`
}

// Logger is the logging interface the Store depends on.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Store owns the on-disk state file, the retained bus publish, and the
// best-effort audit/telemetry side effects a transition produces.
type Store struct {
	path     string
	client   *mqtt.Client
	audit    audit.Repository
	influx   *influxdb.Client
	logger   Logger
}

// New builds a Store backed by path. client is used to publish the
// retained alarm_state topic; repo records audit history. Both may be
// nil in tests. influx may be nil when telemetry is disabled.
func New(path string, client *mqtt.Client, repo audit.Repository, influx *influxdb.Client) *Store {
	return &Store{path: path, client: client, audit: repo, influx: influx, logger: noopLogger{}}
}

// SetLogger attaches the logger used for sink-failure diagnostics.
func (s *Store) SetLogger(l Logger) { s.logger = l }

// Load reads the persisted state from disk. A missing file is not an
// error: it yields the default (disarmed, disarmed) pair.
func Load(path string) (current, previous alarm.State, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return alarm.Disarmed, alarm.Disarmed, nil
	}
	if err != nil {
		return alarm.Disarmed, alarm.Disarmed, fmt.Errorf("reading state file: %w", err)
	}

	var ps PersistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		return alarm.Disarmed, alarm.Disarmed, fmt.Errorf("parsing state file: %w", err)
	}

	return alarm.State(ps.CurrentState), alarm.State(ps.PreviousState), nil
}

// Save writes the state file, publishes the retained alarm_state topic,
// and best-effort records the transition for audit and telemetry. It
// implements alarm.Store.
//
// Write-then-publish order is observable: a crash between the two leaves
// disk authoritative, since the next successful transition re-anchors
// truth.
func (s *Store) Save(ctx context.Context, current, previous alarm.State, actor, event string, dwell time.Duration) error {
	if err := s.writeFile(current, previous); err != nil {
		s.logger.Warn("state file write failed", "error", err)
	}

	if s.client != nil {
		topic := s.client.Topics().AlarmState()
		if err := s.client.Publish(topic, []byte(current), s.client.QoS(), true); err != nil {
			s.logger.Warn("alarm_state publish failed", "error", err)
		}
	}

	s.recordAudit(ctx, current, previous, actor, event)
	s.recordMetric(previous, current, actor, event, dwell)

	return nil
}

func (s *Store) writeFile(current, previous alarm.State) error {
	ps := PersistedState{CurrentState: string(current), PreviousState: string(previous)}
	data, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encoding state file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

func (s *Store) recordAudit(ctx context.Context, current, previous alarm.State, actor, event string) {
	if s.audit == nil {
		return
	}

	auditCtx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	rec := &audit.Record{
		Actor:     actor,
		FromState: string(previous),
		ToState:   string(current),
		Event:     event,
	}
	if err := s.audit.Create(auditCtx, rec); err != nil {
		s.logger.Warn("audit insert failed", "error", err)
	}
}

func (s *Store) recordMetric(previous, current alarm.State, actor, event string, dwell time.Duration) {
	if s.influx == nil {
		return
	}
	s.influx.WriteTransition(string(previous), string(current), actor, dwell)
	if current == alarm.Triggered {
		s.influx.WriteSirenActivation("all", event)
	}
}
