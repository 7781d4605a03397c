// Package statestore persists the panel's (current_state, previous_state)
// pair to disk and republishes it to the bus after every transition.
//
// Disk write and retained publish happen in that order: a crash between
// the two leaves the on-disk file authoritative, since the next
// successful transition re-anchors both. Audit and InfluxDB writes are
// best-effort extras layered on the same Save call; their failure is
// logged and never treated as a state-file error.
package statestore
