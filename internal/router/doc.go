// Package router classifies bus messages by device class and translates
// each of the three verb dialects the panel speaks — internal state
// labels, keypad/gateway commands, and supervisor commands — into the
// typed events the state machine accepts.
//
// The router never mutates alarm state itself; it only parses payloads,
// consults the registry to qualify or drop an event, and enqueues onto
// the state machine.
package router
