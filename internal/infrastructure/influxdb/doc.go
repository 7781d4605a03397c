// Package influxdb provides InfluxDB connectivity for the securitt alarm
// panel core.
//
// It wraps the official influxdb-client-go v2 library with securitt-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles optional time-series storage for:
//   - State transitions (previous state, new state, actor, duration)
//   - Siren activations
//
// It is disabled by default (config.InfluxDBConfig.Enabled = false) and
// writes never block the dispatch loop.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "securitt",
//	    Bucket:  "panel",
//	}
//
//	client, err := influxdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteTransition("armed_away", "alarm", "front_door", 12*time.Second)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency transition data.
package influxdb
