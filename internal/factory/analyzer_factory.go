package factory

import (
	"fmt"

	"github.com/abusehq/gatekeeper/internal/adapters/analyzer"
	"github.com/abusehq/gatekeeper/internal/config"
	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/utils"
	"go.uber.org/zap"
)

// AnalyzerFactory creates remote analyzer clients
type AnalyzerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AnalyzerFactory {
	return &AnalyzerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAnalyzerClient creates a new remote analyzer client from the configuration
func (f *AnalyzerFactory) CreateAnalyzerClient() (core.AnalyzerClient, error) {
	analyzerCfg := f.cfg.GetAnalyzer()
	timeout, err := f.cfg.GetDuration("analyzer.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid analyzer timeout: %w", err)
	}

	return analyzer.NewHTTPClient(
		analyzerCfg.FormURL,
		timeout,
		analyzerCfg.MaxHTMLSize,
		f.textProcessor,
		f.logger,
	), nil
}
