package statestore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tediore/securitt/internal/alarm"
	"github.com/tediore/securitt/internal/statestore"
)

func TestLoad_MissingFileDefaultsToDisarmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	current, previous, err := statestore.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if current != alarm.Disarmed || previous != alarm.Disarmed {
		t.Errorf("Load() = (%v, %v), want (disarmed, disarmed)", current, previous)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := statestore.New(path, nil, nil, nil)

	if err := store.Save(context.Background(), alarm.ArmedAway, alarm.Disarmed, "alice", "arm", time.Second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	current, previous, err := statestore.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if current != alarm.ArmedAway || previous != alarm.Disarmed {
		t.Errorf("Load() = (%v, %v), want (armed_away, disarmed)", current, previous)
	}
}

func TestSave_WritesSingleLineJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := statestore.New(path, nil, nil, nil)

	if err := store.Save(context.Background(), alarm.Triggered, alarm.ArmedHome, "front_door", "sensor_trip", 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}

	var ps statestore.PersistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	if ps.CurrentState != "triggered" || ps.PreviousState != "armed_home" {
		t.Errorf("PersistedState = %+v, want {triggered armed_home}", ps)
	}
}

func TestSave_NilCollaboratorsAreSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := statestore.New(path, nil, nil, nil)

	if err := store.Save(context.Background(), alarm.Disarmed, alarm.Disarmed, "system", "disarm", 0); err != nil {
		t.Fatalf("Save() with nil collaborators should not error, got %v", err)
	}
}
