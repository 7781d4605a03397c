// securitt - Alarm Panel Core
//
// This is the main entry point for the securitt alarm panel application.
// securitt mediates an MQTT-connected wireless sensor gateway, a set of
// keypads/sirens/keyfobs/buttons, and an optional home-automation
// supervisor, and arbitrates the panel's armed state.
//
// For architecture details, see SPEC_FULL.md.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tediore/securitt/internal/infrastructure/config"
	"github.com/tediore/securitt/internal/infrastructure/logging"
	"github.com/tediore/securitt/internal/panel"
	_ "github.com/tediore/securitt/migrations" // registers embedded SQL migrations
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	fmt.Printf("securitt %s (%s) built %s\n", version, commit, date)
	fmt.Println("Alarm Panel Core")
	fmt.Println("---")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configPath: path to the YAML configuration file
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, configPath string) error {
	fmt.Println("Starting securitt...")

	// Logging is stood up from the loaded config before the panel exists,
	// since the panel's own construction (database, broker) can itself
	// fail and needs somewhere to report to.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Logging, version)

	p, err := panel.New(ctx, configPath, logger)
	if err != nil {
		return fmt.Errorf("initialising panel: %w", err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- p.Run(ctx)
	}()

	fmt.Println("Initialisation complete. Waiting for shutdown signal...")

	select {
	case <-ctx.Done():
		fmt.Println("\nShutdown signal received. Cleaning up...")
	case err := <-runErr:
		if err != nil {
			_ = p.Close()
			return fmt.Errorf("panel stopped unexpectedly: %w", err)
		}
	}

	if err := p.Close(); err != nil {
		return fmt.Errorf("closing panel: %w", err)
	}

	fmt.Println("securitt stopped.")
	return nil
}
