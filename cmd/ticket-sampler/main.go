package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/abusehq/gatekeeper/internal/logging"
	"github.com/abusehq/gatekeeper/internal/samplegen"
	"go.uber.org/zap"
)

var (
	endpoint = flag.String("endpoint", "http://localhost:8000/tickets", "Ticket ingestion endpoint")
	count    = flag.Int("n", 5, "Number of sample tickets to send")
	passProb = flag.Float64("pass-prob", 0.4, "Probability that SPF/DKIM/DMARC are all pass")
	timeout  = flag.Duration("timeout", 15*time.Second, "HTTP request timeout")
	spacing  = flag.Duration("spacing", 200*time.Millisecond, "Delay between requests")
	seed     = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog  = flag.Bool("json-log", false, "Output logs in JSON format")
)

// submitResponse mirrors the ingestion API's acknowledgement shape
type submitResponse struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	generator := samplegen.New(rngSeed)
	client := &http.Client{Timeout: *timeout}

	logger.Info("Sending sample tickets",
		zap.String("endpoint", *endpoint),
		zap.Int("count", *count),
		zap.Float64("pass_prob", *passProb))

	sent := 0
	for i := 0; i < *count; i++ {
		sample := generator.Next(*passProb)

		wanted := "FAIL"
		if sample.AllPass {
			wanted = "PASS"
		}

		resp, err := submit(client, *endpoint, &sample)
		if err != nil {
			logger.Error("Failed to send sample ticket", zap.Int("index", i+1), zap.Error(err))
			continue
		}

		fmt.Printf("[%d/%d] wanted=%s -> ticket_id=%s status=%s\n",
			i+1, *count, wanted, resp.TicketID, resp.Status)
		sent++

		time.Sleep(*spacing)
	}

	fmt.Printf("\nDone. Sent OK: %d/%d\n", sent, *count)
}

// submit posts one generated ticket and decodes the acknowledgement
func submit(client *http.Client, endpoint string, sample *samplegen.Sample) (*submitResponse, error) {
	payload, err := json.Marshal(sample.Submission)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to post ticket: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var ack submitResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &ack, nil
}
