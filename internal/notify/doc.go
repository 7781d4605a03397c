// Package notify delivers out-of-band alerts to an optional
// Gotify-compatible webhook when the panel triggers.
//
// This is a thin, out-of-scope sink: it has no retry queue and no
// delivery guarantee. A Notifier with no configured URL is a safe no-op,
// so the state machine can always call it unconditionally.
package notify
