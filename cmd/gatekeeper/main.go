package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/di"
	"github.com/abusehq/gatekeeper/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	server ports.IngestServer,
	store core.TicketStore,
) error {
	defer logger.Sync()

	// Start the ingestion server
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start ingestion server", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the server first so no new analyses start
	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop ingestion server", zap.Error(err))
	}

	// Stop the store if needed
	if stopper, ok := store.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
