package panel_test

import (
	"context"
	"testing"

	"github.com/tediore/securitt/internal/infrastructure/config"
	"github.com/tediore/securitt/internal/infrastructure/logging"
	"github.com/tediore/securitt/internal/panel"
)

// TestNew_MissingConfig verifies that New surfaces a config load failure
// without attempting to dial a broker or open a database.
func TestNew_MissingConfig(t *testing.T) {
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "json", Output: "stdout"}, "test")

	_, err := panel.New(context.Background(), "/nonexistent/config.yaml", logger)
	if err == nil {
		t.Fatal("New() with a missing config path should return an error")
	}
}
