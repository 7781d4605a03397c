package router_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tediore/securitt/internal/alarm"
	"github.com/tediore/securitt/internal/registry"
	"github.com/tediore/securitt/internal/router"
)

type fakeMachine struct {
	events []alarm.Event
}

func (f *fakeMachine) Enqueue(ev alarm.Event) {
	f.events = append(f.events, ev)
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
mqtt:
  host: 127.0.0.1
  base_topic: securitt
  gateway_topic_prefix: gateway

panel:
  codes:
    1234: alice
  armed_home:
    exit_delay: 0
    entry_delay: 10
    alarm_time: 60
  armed_away:
    exit_delay: 30
    entry_delay: 30
    alarm_time: 180

sensors:
  - name: front_door
    type: contact
    active: ["always"]
  - name: hall_motion
    type: motion
    active: ["armed_away"]
  - name: safe
    type: contact
    active: ["armed_home"]
    tamper_monitored: true

keypads:
  - name: kitchen
sirens:
  - name: main_siren
keyfobs:
  - name: fob1
    enabled: true
    allowed_modes: ["armed_home"]
buttons:
  - name: panic_button
    enabled: true
    actions:
      single: armed_home
      double: panic
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("registry.Load: %v", err)
	}
	return reg
}

func TestHandleDevice_ContactSensorOpened(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("front_door", []byte(`{"contact":false}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}

	if len(m.events) != 1 {
		t.Fatalf("events = %d, want 1", len(m.events))
	}
	trip, ok := m.events[0].(alarm.SensorTripEvent)
	if !ok || !trip.SensorOn {
		t.Errorf("event = %+v, want SensorTripEvent{SensorOn: true}", m.events[0])
	}
}

func TestHandleDevice_ContactSensorClosedDropped(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("front_door", []byte(`{"contact":true}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if len(m.events) != 1 {
		t.Fatalf("events = %d, want 1 (sensor_on=false still enqueued; the machine drops it)", len(m.events))
	}
	if trip := m.events[0].(alarm.SensorTripEvent); trip.SensorOn {
		t.Error("expected SensorOn=false for a closed contact")
	}
}

func TestHandleDevice_TamperOverridesContact(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("safe", []byte(`{"contact":false,"tamper":true}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if len(m.events) != 1 {
		t.Fatalf("events = %d, want 1", len(m.events))
	}
	if _, ok := m.events[0].(alarm.SensorTamperEvent); !ok {
		t.Errorf("event = %T, want SensorTamperEvent", m.events[0])
	}
}

func TestHandleDevice_MotionOccupancy(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("hall_motion", []byte(`{"occupancy":true}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	trip := m.events[0].(alarm.SensorTripEvent)
	if !trip.SensorOn {
		t.Error("expected SensorOn=true for occupancy=true")
	}
}

func TestHandleDevice_KeypadArm(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("kitchen", []byte(`{"action":"arm_all_zones","action_code":1234}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	ev, ok := m.events[0].(alarm.ArmEvent)
	if !ok {
		t.Fatalf("event = %T, want ArmEvent", m.events[0])
	}
	if ev.Mode != alarm.ArmedAway || ev.Actor != "alice" || ev.KeypadName != "kitchen" {
		t.Errorf("event = %+v, want {armed_away alice kitchen}", ev)
	}
}

func TestHandleDevice_KeypadUnknownCodeDropped(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("kitchen", []byte(`{"action":"disarm","action_code":9999}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %d, want 0 for an unknown code", len(m.events))
	}
}

// S5: keyfob requesting a mode outside its allowed_modes is dropped.
func TestHandleDevice_KeyfobDisallowedModeDropped(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("fob1", []byte(`{"action":"arm_all_zones"}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %d, want 0 (arm_all_zones not in fob1's allowed_modes)", len(m.events))
	}
}

func TestHandleDevice_KeyfobAllowedMode(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("fob1", []byte(`{"action":"arm_day_zones"}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	ev, ok := m.events[0].(alarm.ArmEvent)
	if !ok || ev.Mode != alarm.ArmedHome || ev.Actor != "fob1" {
		t.Errorf("event = %+v, want ArmEvent{armed_home, fob1}", m.events[0])
	}
}

func TestHandleDevice_ButtonSingleAndDouble(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("panic_button", []byte(`{"action":"single"}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	ev, ok := m.events[0].(alarm.ArmEvent)
	if !ok || ev.Mode != alarm.ArmedHome {
		t.Errorf("single press event = %+v, want armed_home ArmEvent", m.events[0])
	}

	if err := r.HandleDevice("panic_button", []byte(`{"action":"double"}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if _, ok := m.events[1].(alarm.PanicEvent); !ok {
		t.Errorf("double press event = %T, want PanicEvent", m.events[1])
	}
}

func TestHandleSetMode(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleSetMode([]byte(`{"action":"arm_away","code":1234}`)); err != nil {
		t.Fatalf("HandleSetMode: %v", err)
	}
	ev, ok := m.events[0].(alarm.ArmEvent)
	if !ok || ev.Mode != alarm.ArmedAway || ev.Actor != "alice" {
		t.Errorf("event = %+v, want ArmEvent{armed_away, alice}", m.events[0])
	}
}

func TestHandleSetMode_InvalidCodeDropped(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleSetMode([]byte(`{"action":"disarm","code":1}`)); err != nil {
		t.Fatalf("HandleSetMode: %v", err)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %d, want 0 for an invalid code", len(m.events))
	}
}

func TestHandleReload(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleReload(); err != nil {
		t.Fatalf("HandleReload: %v", err)
	}
	if _, ok := m.events[0].(alarm.ReloadEvent); !ok {
		t.Errorf("event = %T, want ReloadEvent", m.events[0])
	}
}

func TestHandleDevice_UnregisteredDeviceDropped(t *testing.T) {
	reg := testRegistry(t)
	m := &fakeMachine{}
	r := router.New(reg, m)

	if err := r.HandleDevice("nonexistent", []byte(`{}`)); err != nil {
		t.Fatalf("HandleDevice: %v", err)
	}
	if len(m.events) != 0 {
		t.Errorf("events = %d, want 0 for an unregistered device", len(m.events))
	}
}
