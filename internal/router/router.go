package router

import (
	"encoding/json"
	"fmt"

	"github.com/tediore/securitt/internal/alarm"
	"github.com/tediore/securitt/internal/infrastructure/config"
	"github.com/tediore/securitt/internal/infrastructure/mqtt"
	"github.com/tediore/securitt/internal/registry"
)

// Logger is the logging interface the Router depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Machine is the subset of alarm.Machine the Router needs: just enough
// to hand it a classified event.
type Machine interface {
	Enqueue(ev alarm.Event)
}

// Router subscribes to the panel's bus topics, classifies incoming
// messages by device class, and feeds the resulting typed events to the
// state machine. It never mutates alarm state itself.
type Router struct {
	reg     *registry.Registry
	machine Machine
	logger  Logger
}

// New builds a Router bound to reg and machine.
func New(reg *registry.Registry, machine Machine) *Router {
	return &Router{reg: reg, machine: machine, logger: noopLogger{}}
}

// SetLogger attaches the logger used for drop/warning diagnostics.
func (r *Router) SetLogger(l Logger) { r.logger = l }

// Subscribe establishes every subscription the router needs: the
// supervisor set_mode topic, the reload_config topic, and a wildcard
// covering every device under the gateway prefix.
func (r *Router) Subscribe(client *mqtt.Client) error {
	topics := client.Topics()

	if err := client.Subscribe(topics.SetMode(), client.QoS(), func(_ string, payload []byte) error {
		return r.HandleSetMode(payload)
	}); err != nil {
		return fmt.Errorf("subscribing to set_mode: %w", err)
	}

	if err := client.Subscribe(topics.ReloadConfig(), client.QoS(), func(_ string, _ []byte) error {
		return r.HandleReload()
	}); err != nil {
		return fmt.Errorf("subscribing to reload_config: %w", err)
	}

	if err := client.Subscribe(topics.AllDevices(), client.QoS(), func(topic string, payload []byte) error {
		name := deviceNameFromTopic(topic)
		return r.HandleDevice(name, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to device topics: %w", err)
	}

	return nil
}

func deviceNameFromTopic(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return topic
}

// HandleDevice classifies a raw gateway event by device class and
// enqueues the corresponding typed event, if any.
func (r *Router) HandleDevice(name string, payload []byte) error {
	if sensor, ok := r.reg.Sensor(name); ok {
		return r.handleSensor(sensor.Name, sensor.Type, sensor.TamperMonitored, payload)
	}
	if _, ok := r.reg.Keypad(name); ok {
		return r.handleKeypad(name, payload)
	}
	if fob, ok := r.reg.Keyfob(name); ok {
		return r.handleKeyfob(fob, payload)
	}
	if button, ok := r.reg.Button(name); ok {
		return r.handleButton(button, payload)
	}
	r.logger.Warn("event from unregistered device", "device", name)
	return nil
}

func (r *Router) handleSensor(name, sensorType string, tamperMonitored bool, payload []byte) error {
	var body sensorPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		r.logger.Warn("sensor payload not JSON", "sensor", name, "error", err)
		return nil
	}

	if tamperMonitored && body.Tamper != nil && *body.Tamper {
		r.machine.Enqueue(alarm.SensorTamperEvent{Sensor: name})
		return nil
	}

	var sensorOn bool
	switch sensorType {
	case "contact":
		if body.Contact == nil {
			r.logger.Warn("contact payload missing contact field", "sensor", name)
			return nil
		}
		sensorOn = !*body.Contact // false (closed=false) means opened
	case "motion":
		if body.Occupancy == nil {
			r.logger.Warn("motion payload missing occupancy field", "sensor", name)
			return nil
		}
		sensorOn = *body.Occupancy
	default:
		r.logger.Error("sensor has unknown type", "sensor", name, "type", sensorType)
		return nil
	}

	r.machine.Enqueue(alarm.SensorTripEvent{Sensor: name, SensorOn: sensorOn})
	return nil
}

func (r *Router) handleKeypad(name string, payload []byte) error {
	var body keypadPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		r.logger.Warn("keypad payload not JSON", "keypad", name, "error", err)
		return nil
	}

	if body.ActionCode == nil {
		r.logger.Warn("keypad event missing action_code", "keypad", name)
		return nil
	}
	actor, ok := r.reg.CodeName(*body.ActionCode)
	if !ok {
		r.logger.Warn("keypad event with unknown code", "keypad", name)
		return nil
	}

	ev, ok := verbToEvent(body.Action, actor, name)
	if !ok {
		r.logger.Warn("keypad event with unrecognised verb", "keypad", name, "action", body.Action)
		return nil
	}
	r.machine.Enqueue(ev)
	return nil
}

func (r *Router) handleKeyfob(fob config.KeyfobConfig, payload []byte) error {
	var body keyfobPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		r.logger.Warn("keyfob payload not JSON", "keyfob", fob.Name, "error", err)
		return nil
	}
	if body.Action == "" {
		r.logger.Debug("keyfob event with empty action", "keyfob", fob.Name)
		return nil
	}
	if !fob.Enabled {
		r.logger.Warn("keyfob event from disabled device", "keyfob", fob.Name)
		return nil
	}

	modeLabel, ok := verbToAllowedModeLabel[body.Action]
	if !ok {
		r.logger.Warn("keyfob event with unrecognised action", "keyfob", fob.Name, "action", body.Action)
		return nil
	}
	if !containsString(fob.AllowedModes, modeLabel) {
		r.logger.Warn("keyfob action not permitted", "keyfob", fob.Name, "action", body.Action)
		return nil
	}

	ev, ok := verbToEvent(body.Action, fob.Name, "")
	if !ok {
		r.logger.Warn("keyfob event with unrecognised verb", "keyfob", fob.Name, "action", body.Action)
		return nil
	}
	r.machine.Enqueue(ev)
	return nil
}

// normalizeGesture collapses the four raw button actions down to the two
// gesture keys buttons configure: on/off/single all mean a single press.
func normalizeGesture(action string) string {
	switch action {
	case "on", "off", "single":
		return "single"
	case "double":
		return "double"
	default:
		return ""
	}
}

func (r *Router) handleButton(button config.ButtonConfig, payload []byte) error {
	var body buttonPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		r.logger.Warn("button payload not JSON", "button", button.Name, "error", err)
		return nil
	}
	if !button.Enabled {
		r.logger.Warn("button event from disabled device", "button", button.Name)
		return nil
	}

	gesture := normalizeGesture(body.Action)
	if gesture == "" {
		r.logger.Debug("button event with unrecognised action", "button", button.Name, "action", body.Action)
		return nil
	}

	stateLabel, ok := button.Actions[gesture]
	if !ok {
		r.logger.Debug("button gesture not configured", "button", button.Name, "gesture", gesture)
		return nil
	}

	verb, ok := stateLabelToKeypadVerb[stateLabel]
	if !ok {
		r.logger.Warn("button action resolves to unrecognised state", "button", button.Name, "state", stateLabel)
		return nil
	}

	ev, ok := verbToEvent(verb, button.Name, "")
	if !ok {
		r.logger.Warn("button event with unrecognised verb", "button", button.Name, "verb", verb)
		return nil
	}
	r.machine.Enqueue(ev)
	return nil
}

// HandleSetMode classifies a supervisor command, translating its external
// verb set into the internal dialect before emitting a typed event.
func (r *Router) HandleSetMode(payload []byte) error {
	var body supervisorPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		r.logger.Warn("set_mode payload not JSON", "error", err)
		return nil
	}

	actor, ok := r.reg.CodeName(body.Code)
	if !ok {
		r.logger.Warn("set_mode with unknown code")
		return nil
	}

	verb, ok := supervisorVerbToKeypadVerb[body.Action]
	if !ok {
		r.logger.Warn("set_mode with unrecognised action", "action", body.Action)
		return nil
	}

	ev, ok := verbToEvent(verb, actor, "")
	if !ok {
		r.logger.Warn("set_mode verb did not resolve to an event", "verb", verb)
		return nil
	}
	r.machine.Enqueue(ev)
	return nil
}

// HandleReload enqueues a registry reload request. The payload carries no
// information and is ignored.
func (r *Router) HandleReload() error {
	r.machine.Enqueue(alarm.ReloadEvent{})
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
