// Package panel assembles the bus client, registry, timer manager,
// state machine, state store, and event router into a single owned
// object, replacing the source's process-wide singletons with two
// explicit structs: Panel (this package) owns the domain; the bus
// adapter it holds owns only the transport.
package panel
