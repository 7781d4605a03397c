package main

import (
	"context"
	"testing"
	"time"
)

// TestRun_MissingConfig verifies run surfaces a config load failure
// immediately, without attempting to dial a broker or open a database.
func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx, "/nonexistent/config.yaml"); err == nil {
		t.Error("run() with a missing config path should return an error")
	}
}
