package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abusehq/gatekeeper/internal/core"
	"github.com/abusehq/gatekeeper/internal/utils"
	"go.uber.org/zap"
)

// HTTPClient is an HTTP implementation of the AnalyzerClient interface. It
// submits raw headers as a form payload to the remote analyzer and returns
// the rendered HTML body verbatim, capped to a configured size.
type HTTPClient struct {
	formURL       string
	client        *http.Client
	maxHTMLSize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewHTTPClient creates a new remote analyzer client
func NewHTTPClient(
	formURL string,
	timeout time.Duration,
	maxHTMLSize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *HTTPClient {
	return &HTTPClient{
		formURL:       formURL,
		client:        &http.Client{Timeout: timeout},
		maxHTMLSize:   maxHTMLSize,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Analyze submits the raw headers to the remote analyzer. Exactly one
// request is made per call; there is no retry. Every failure mode,
// including timeouts and non-2xx responses, is reported in the outcome.
func (c *HTTPClient) Analyze(ctx context.Context, rawHeaders string) core.RemoteAnalysis {
	form := url.Values{"headers": {rawHeaders}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL, strings.NewReader(form.Encode()))
	if err != nil {
		return core.RemoteAnalysis{Err: fmt.Sprintf("failed to build analyzer request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return core.RemoteAnalysis{Err: fmt.Sprintf("analyzer unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.RemoteAnalysis{Err: fmt.Sprintf("failed to read analyzer response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.RemoteAnalysis{Err: fmt.Sprintf("analyzer returned status %d", resp.StatusCode)}
	}

	c.logger.Debug("Remote analyzer responded",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return core.RemoteAnalysis{HTML: c.textProcessor.ProcessText(string(body), c.maxHTMLSize)}
}
