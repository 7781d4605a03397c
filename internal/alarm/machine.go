package alarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tediore/securitt/internal/registry"
	"github.com/tediore/securitt/internal/timer"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Machine is the panel's alarm state machine. It owns the current state,
// the captured restoration targets for pending/triggered, and the
// collaborators (registry, timers, store, actuator, notifier) a
// transition needs.
type Machine struct {
	reg      *registry.Registry
	timers   *timer.Manager
	actuator Actuator
	store    Store
	notifier Notifier
	logger   Logger

	mu          sync.Mutex
	state       State
	pendingPrev State // armed mode captured when entering pending
	triggerPrev State // state to restore to when leaving triggered
	stateSince  time.Time

	events chan Event
}

// New builds a Machine starting in the disarmed state. Callers should
// call Resume before Run if the panel is restoring a persisted state
// after restart.
func New(reg *registry.Registry, timers *timer.Manager, actuator Actuator, store Store) *Machine {
	return &Machine{
		reg:        reg,
		timers:     timers,
		actuator:   actuator,
		store:      store,
		logger:     noopLogger{},
		state:      Disarmed,
		stateSince: time.Now(),
		events:     make(chan Event, 32),
	}
}

// SetNotifier attaches the optional outbound webhook sink.
func (m *Machine) SetNotifier(n Notifier) { m.notifier = n }

// SetLogger attaches the logger used for transition and drop diagnostics.
func (m *Machine) SetLogger(l Logger) { m.logger = l }

// Resume seeds the machine's state without running any side effects, for
// restoring persisted state at startup. It must be called before Run.
func (m *Machine) Resume(current, previous State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = current
	m.triggerPrev = previous
	if current == Pending {
		m.pendingPrev = previous
	}
}

// State returns the current alarm state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Enqueue hands an event to the dispatch loop. It never blocks the
// caller beyond the channel's buffer; a full buffer indicates the loop is
// wedged and is treated as a programming error upstream, not handled
// here.
func (m *Machine) Enqueue(ev Event) {
	m.events <- ev
}

// Run processes events one at a time until ctx is cancelled. Exactly one
// event is fully handled — including publishing actuator messages and
// persisting state — before the next is read from the channel.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-m.events:
			m.handle(ctx, ev)
		}
	}
}

func (m *Machine) handle(ctx context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e := ev.(type) {
	case ArmEvent:
		m.handleArm(ctx, e)
	case DisarmEvent:
		m.handleDisarm(ctx, e)
	case PanicEvent:
		m.handlePanic(ctx, e)
	case SensorTripEvent:
		m.handleSensorTrip(ctx, e)
	case SensorTamperEvent:
		m.handleSensorTamper(ctx, e)
	case armCompleteEvent:
		m.handleArmComplete(ctx, e)
	case entryExpiredEvent:
		m.handleEntryExpired(ctx, e)
	case sirenExpiredEvent:
		m.handleSirenExpired(ctx)
	case ReloadEvent:
		if err := m.reg.Reload(); err != nil {
			m.logger.Warn("registry reload failed, keeping prior registry", "error", err)
		}
	default:
		m.logger.Error("unrecognised event", "type", fmt.Sprintf("%T", ev))
	}
}

func (m *Machine) handleArm(ctx context.Context, e ArmEvent) {
	if m.state != Disarmed {
		m.logger.Debug("arm ignored outside disarmed", "state", m.state, "mode", e.Mode)
		return
	}

	timings, ok := m.reg.Timings(string(e.Mode))
	if !ok {
		m.logger.Error("arm requested for unknown mode", "mode", e.Mode)
		return
	}

	if timings.ExitDelay == 0 {
		m.enterState(ctx, e.Mode, e.Actor, "arm")
		if err := m.actuator.PublishKeypadLEDAll(ctx, armModeVerb(e.Mode)); err != nil {
			m.logger.Warn("publish keypad LED failed", "error", err)
		}
		return
	}

	m.state = Arming
	m.timers.Schedule(timer.RoleExit, secondsToDuration(timings.ExitDelay), func() {
		m.Enqueue(armCompleteEvent{Mode: e.Mode})
	})
	if e.KeypadName != "" && e.Mode == ArmedAway {
		if err := m.actuator.PublishKeypadLED(ctx, e.KeypadName, "arming_away"); err != nil {
			m.logger.Warn("publish arming_away LED failed", "error", err)
		}
	}
	m.logger.Info("arming started", "mode", e.Mode, "actor", e.Actor, "exit_delay", timings.ExitDelay)
}

func (m *Machine) handleArmComplete(ctx context.Context, e armCompleteEvent) {
	if m.state != Arming {
		m.logger.Debug("arm_complete ignored outside arming", "state", m.state)
		return
	}
	m.enterState(ctx, e.Mode, "system", "arm_complete")
	if err := m.actuator.PublishKeypadLEDAll(ctx, armModeVerb(e.Mode)); err != nil {
		m.logger.Warn("publish keypad LED failed", "error", err)
	}
}

func (m *Machine) handleDisarm(ctx context.Context, e DisarmEvent) {
	switch m.state {
	case Arming:
		m.timers.Cancel(timer.RoleExit)
		m.logger.Info("exit delay canceled", "actor", e.Actor)
		m.enterState(ctx, Disarmed, e.Actor, "disarm")
	case Pending:
		m.timers.Cancel(timer.RoleEntry)
		m.logger.Info("entry delay canceled", "actor", e.Actor)
		m.enterState(ctx, Disarmed, e.Actor, "disarm")
	case Triggered:
		m.timers.Cancel(timer.RoleSiren)
		if err := m.actuator.PublishSirenStop(ctx); err != nil {
			m.logger.Warn("publish siren stop failed", "error", err)
		}
		restoreTo := m.triggerPrev
		m.state = restoreTo
		// Leaving triggered: previous_state is recorded as triggered itself,
		// per invariant 2, regardless of what restoreTo is.
		m.persist(ctx, restoreTo, Triggered, e.Actor, "disarm")
	case ArmedHome, ArmedNight, ArmedAway:
		m.enterState(ctx, Disarmed, e.Actor, "disarm")
	case Disarmed:
		m.logger.Debug("disarm ignored, already disarmed")
		return
	}
	if err := m.actuator.PublishKeypadLEDAll(ctx, "disarm"); err != nil {
		m.logger.Warn("publish keypad LED failed", "error", err)
	}
}

func (m *Machine) handlePanic(ctx context.Context, e PanicEvent) {
	restoreTo := m.panicRestoreTarget()
	m.cancelActiveTimer()
	m.enterTriggered(ctx, restoreTo, "panic", e.Actor, true, "panic button")
}

// panicRestoreTarget computes the state a panic-induced trigger restores
// to: the armed mode active when panic fired, the armed mode captured on
// entering pending when fired mid-pending, or disarmed otherwise
// (disarmed, arming, triggered), so a panic from an unarmed panel never
// re-arms it on restore.
func (m *Machine) panicRestoreTarget() State {
	switch m.state {
	case ArmedHome, ArmedNight, ArmedAway:
		return m.state
	case Pending:
		return m.pendingPrev
	default:
		return Disarmed
	}
}

func (m *Machine) cancelActiveTimer() {
	switch m.state {
	case Arming:
		m.timers.Cancel(timer.RoleExit)
	case Pending:
		m.timers.Cancel(timer.RoleEntry)
	case Triggered:
		m.timers.Cancel(timer.RoleSiren)
	}
}

func (m *Machine) handleSensorTrip(ctx context.Context, e SensorTripEvent) {
	if !e.SensorOn {
		return
	}
	if m.state == Disarmed {
		m.logger.Debug("sensor trip dropped, panel disarmed", "sensor", e.Sensor)
		return
	}
	if !m.state.IsArmed() {
		m.logger.Debug("sensor trip ignored, not in an armed mode", "sensor", e.Sensor, "state", m.state)
		return
	}

	sensor, ok := m.reg.Sensor(e.Sensor)
	if !ok {
		m.logger.Warn("sensor trip from unknown device", "sensor", e.Sensor)
		return
	}
	if !sensor.ActiveIn(string(m.state)) {
		m.logger.Debug("sensor not active in current mode", "sensor", e.Sensor, "state", m.state)
		return
	}

	mode := m.state
	timings, _ := m.reg.Timings(string(mode))

	if sensor.Instant || timings.EntryDelay == 0 {
		m.enterTriggered(ctx, mode, "sensor_trip", e.Sensor, false, e.Sensor)
		return
	}

	m.pendingPrev = mode
	m.state = Pending
	m.timers.Schedule(timer.RoleEntry, secondsToDuration(timings.EntryDelay), func() {
		m.Enqueue(entryExpiredEvent{Sensor: e.Sensor})
	})
	m.logger.Info("entry delay started", "sensor", e.Sensor, "mode", mode, "entry_delay", timings.EntryDelay)
}

func (m *Machine) handleSensorTamper(ctx context.Context, e SensorTamperEvent) {
	if !m.state.IsArmed() {
		m.logger.Debug("sensor tamper ignored, not in an armed mode", "sensor", e.Sensor, "state", m.state)
		return
	}

	sensor, ok := m.reg.Sensor(e.Sensor)
	if !ok {
		m.logger.Warn("tamper from unknown device", "sensor", e.Sensor)
		return
	}
	if !sensor.TamperMonitored || !sensor.ActiveIn(string(m.state)) {
		m.logger.Debug("tamper ignored, sensor not tamper-monitored or not active", "sensor", e.Sensor)
		return
	}

	m.enterTriggered(ctx, m.state, "sensor_tamper", e.Sensor, true, e.Sensor+" tampering")
}

func (m *Machine) handleEntryExpired(ctx context.Context, e entryExpiredEvent) {
	if m.state != Pending {
		m.logger.Debug("entry_expired ignored outside pending", "state", m.state)
		return
	}
	m.enterTriggered(ctx, m.pendingPrev, "entry_expired", e.Sensor, e.Tamper, e.Sensor)
}

func (m *Machine) handleSirenExpired(ctx context.Context) {
	if m.state != Triggered {
		m.logger.Debug("siren_expired ignored outside triggered", "state", m.state)
		return
	}
	restoreTo := m.triggerPrev
	m.state = restoreTo
	// Leaving triggered: previous_state is recorded as triggered itself,
	// per invariant 2, regardless of what restoreTo is.
	m.persist(ctx, restoreTo, Triggered, "system", "siren_expired")
}

// enterTriggered persists state, arms the siren timer, and actuates
// every siren. restoreTo becomes the previous_state recorded against
// triggered, so that whatever caused the trigger (armed mode, pending
// capture, or panic's computed target), leaving triggered always
// restores to the right place.
func (m *Machine) enterTriggered(ctx context.Context, restoreTo State, event, actor string, tamper bool, note string) {
	timings, ok := m.reg.Timings(string(restoreTo))
	alarmTime := m.reg.MaxAlarmTime()
	if ok {
		alarmTime = timings.AlarmTime
	}

	from := m.state
	m.state = Triggered
	m.triggerPrev = restoreTo

	m.timers.Schedule(timer.RoleSiren, secondsToDuration(alarmTime), func() {
		m.Enqueue(sirenExpiredEvent{})
	})

	if err := m.actuator.PublishSirenStart(ctx, alarmTime); err != nil {
		m.logger.Warn("publish siren start failed", "error", err)
	}

	logMsg := "triggered"
	if tamper {
		logMsg = "triggered (tampering)"
	}
	m.logger.Info(logMsg, "from", from, "event", event, "actor", actor, "note", note, "alarm_time", alarmTime)

	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, fmt.Sprintf("ALARM: %s (%s)", note, actor)); err != nil {
			m.logger.Warn("notify failed", "error", err)
		}
	}

	m.persist(ctx, Triggered, restoreTo, actor, event)
}

// enterState transitions to to, persists the literal prior state as
// previous_state, and logs, without any trigger-specific side effects.
func (m *Machine) enterState(ctx context.Context, to State, actor, event string) {
	from := m.state
	m.state = to
	m.persist(ctx, to, from, actor, event)
}

// persist records the transition and the time spent in the state being
// left. Audit and telemetry writes are the store's responsibility and
// are best-effort; a failure here is logged and never surfaces as a
// state-file error.
func (m *Machine) persist(ctx context.Context, current, previous State, actor, event string) {
	dwell := time.Since(m.stateSince)
	m.stateSince = time.Now()

	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, current, previous, actor, event, dwell); err != nil {
		m.logger.Warn("state persistence failed", "error", err)
	}
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
