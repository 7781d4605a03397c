// Package alarm implements the panel's state machine: the
// disarmed/arming/armed/pending/triggered model, its timed transitions,
// and the side effects (keypad LEDs, sirens, persistence, audit, and
// telemetry) those transitions drive.
//
// A Machine owns exactly one copy of the current state and serializes
// every mutation through a single dispatch loop: events are enqueued by
// callers (typically the event router or a timer callback) and processed
// one at a time, in arrival order. No other goroutine may read or write
// the state directly.
package alarm
