package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/abusehq/gatekeeper/internal/config"
	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/factory"
	"github.com/abusehq/gatekeeper/internal/logging"
	"github.com/abusehq/gatekeeper/internal/ports"
	"github.com/abusehq/gatekeeper/internal/reporters"
	"github.com/abusehq/gatekeeper/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register ticket store
	if err := container.Provide(func(f *factory.StoreFactory) (core.TicketStore, error) {
		return f.CreateTicketStore()
	}); err != nil {
		return nil, err
	}

	// Register remote analyzer client
	if err := container.Provide(func(f *factory.AnalyzerFactory) (core.AnalyzerClient, error) {
		return f.CreateAnalyzerClient()
	}); err != nil {
		return nil, err
	}

	// Register reporter validator
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *reporters.Validator {
		return reporters.NewValidator(cfg.GetStringSlice("ingest.allowed_reporter_domains"), logger)
	}); err != nil {
		return nil, err
	}

	// Register ticket lifecycle service
	if err := container.Provide(core.NewTicketService); err != nil {
		return nil, err
	}

	// Register ingestion server
	if err := container.Provide(func(f *factory.ServerFactory) (ports.IngestServer, error) {
		return f.CreateIngestServer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
