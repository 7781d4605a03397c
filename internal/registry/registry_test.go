package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tediore/securitt/internal/registry"
)

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

const baseConfig = `
mqtt:
  host: 127.0.0.1
  base_topic: securitt
  gateway_topic_prefix: gateway

panel:
  codes:
    1234: alice
  armed_home:
    exit_delay: 0
    entry_delay: 30
    alarm_time: 120
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

keypads:
  - name: kitchen

sirens:
  - name: main_siren

keyfobs:
  - name: fob1
    enabled: true
    allowed_modes: ["armed_home"]
`

func TestLoad(t *testing.T) {
	path := writeTestConfig(t, baseConfig)

	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if name, ok := reg.CodeName(1234); !ok || name != "alice" {
		t.Errorf("CodeName(1234) = %q, %v, want alice, true", name, ok)
	}

	if _, ok := reg.Sensor("front_door"); !ok {
		t.Error("Sensor(front_door) not found")
	}

	if !reg.IsKnownDevice("kitchen") {
		t.Error("IsKnownDevice(kitchen) = false, want true")
	}
	if reg.IsKnownDevice("nonexistent") {
		t.Error("IsKnownDevice(nonexistent) = true, want false")
	}
}

func TestTimings(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	timings, ok := reg.Timings("armed_away")
	if !ok {
		t.Fatal("Timings(armed_away) not found")
	}
	if timings.ExitDelay != 30 || timings.EntryDelay != 30 || timings.AlarmTime != 180 {
		t.Errorf("Timings(armed_away) = %+v, want {30 30 180}", timings)
	}

	if _, ok := reg.Timings("disarmed"); ok {
		t.Error("Timings(disarmed) should not resolve")
	}
}

func TestMaxAlarmTime(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reg.MaxAlarmTime(); got != 180 {
		t.Errorf("MaxAlarmTime() = %d, want 180", got)
	}
}

func TestReload_PreservesMQTT(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	original := reg.MQTT()

	updated := baseConfig + "\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	if err := reg.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if reg.MQTT() != original {
		t.Errorf("Reload() changed MQTT params: got %+v, want %+v", reg.MQTT(), original)
	}
}

func TestReload_KeepsPriorOnError(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("not: valid: yaml: ["), 0o600); err != nil {
		t.Fatalf("corrupting config: %v", err)
	}

	if err := reg.Reload(); err == nil {
		t.Fatal("Reload() should fail on invalid YAML")
	}

	if _, ok := reg.Sensor("front_door"); !ok {
		t.Error("Reload() failure should keep the prior registry intact")
	}
}

func TestKeyfob(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fob, ok := reg.Keyfob("fob1")
	if !ok {
		t.Fatal("Keyfob(fob1) not found")
	}
	if len(fob.AllowedModes) != 1 || fob.AllowedModes[0] != "armed_home" {
		t.Errorf("Keyfob(fob1).AllowedModes = %v, want [armed_home]", fob.AllowedModes)
	}
}
