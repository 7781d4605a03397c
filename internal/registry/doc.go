// Package registry owns the panel's device inventory, accepted codes,
// and per-mode timings, loaded from YAML and atomically replaced on
// reload.
//
// The Registry never replaces bus connection parameters on reload: bus
// identity is stable for the process lifetime. Everything else
// (sensors, keypads, sirens, keyfobs, buttons, codes, panel timings) is
// swapped wholesale so readers always see a consistent snapshot.
package registry
