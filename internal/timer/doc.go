// Package timer schedules the panel's exit, entry, and siren countdowns.
//
// Each role has at most one live timer. Scheduling a new timer for a role
// cancels any timer already running for it. A generation token guards
// against the fire/cancel race: a timer that has already been cancelled
// (or superseded) never invokes its callback, even if its underlying
// time.Timer had already fired before Cancel ran.
package timer
