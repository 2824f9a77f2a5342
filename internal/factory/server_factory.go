package factory

import (
	"github.com/abusehq/gatekeeper/internal/adapters/httpapi"
	"github.com/abusehq/gatekeeper/internal/config"
	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/ports"
	"github.com/abusehq/gatekeeper/internal/reporters"
	"go.uber.org/zap"
)

// ServerFactory creates ingestion servers
type ServerFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.TicketService
	validator *reporters.Validator
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, service *core.TicketService, validator *reporters.Validator) *ServerFactory {
	return &ServerFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		validator: validator,
	}
}

// CreateIngestServer creates the ingestion server from the configuration
func (f *ServerFactory) CreateIngestServer() (ports.IngestServer, error) {
	return httpapi.NewServer(
		f.service,
		f.validator,
		f.logger,
		f.cfg.GetServer().ListenAddress,
	), nil
}
