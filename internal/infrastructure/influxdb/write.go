package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTransition writes a single state transition to InfluxDB.
//
// This is the primary method for recording panel history as time-series
// data. The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - fromState: The state the panel transitioned out of
//   - toState: The state the panel transitioned into
//   - actor: The code-table name, keyfob, button, sensor, or "system" that caused the transition
//   - duration: Time spent in the previous state
//
// Example:
//
//	client.WriteTransition("armed_away", "alarm", "front_door", 12*time.Second)
func (c *Client) WriteTransition(fromState, toState, actor string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"transitions",
		map[string]string{
			"from_state": fromState,
			"to_state":   toState,
			"actor":      actor,
		},
		map[string]interface{}{
			"duration_seconds": duration.Seconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSirenActivation writes a siren activation event.
//
// Parameters:
//   - siren: Siren identifier
//   - reason: Why the siren activated (e.g. "alarm", "panic")
func (c *Client) WriteSirenActivation(siren, reason string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"siren_activations",
		map[string]string{
			"siren":  siren,
			"reason": reason,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("panel_health",
//	    map[string]string{"host": "panel-01"},
//	    map[string]interface{}{"queue_depth": 3})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
