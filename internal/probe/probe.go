// Package probe provides an HTTP trial body for the CLI: each attempt
// issues one request against a target endpoint and reports a
// trialbench.TrialOutcome. It is one possible collaborator behind the
// engine's opaque TrialFunc contract, not part of the engine itself.
package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"trialbench"
)

// Measurement dimensions reported by the probe.
const (
	DimE2E     = "e2e"
	DimService = "service"
)

type Config struct {
	URL     string
	Method  string
	Body    string
	Headers map[string]string
}

// New returns a TrialFunc that probes cfg.URL once per attempt. A 2xx
// response passes; other statuses resolve as failed outcomes (not
// retried); transport errors are returned as attempt errors (retried).
// Requests carry the attempt context, so a timed-out attempt cancels
// its request in flight.
func New(cfg Config) trialbench.TrialFunc {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxConnsPerHost = 2000
	t.MaxIdleConnsPerHost = 2000
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	client := &http.Client{Transport: t}

	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	return func(ctx context.Context) (trialbench.TrialOutcome, error) {
		start := time.Now()

		var body io.Reader
		if cfg.Body != "" {
			body = strings.NewReader(cfg.Body)
		}
		req, err := http.NewRequestWithContext(ctx, method, cfg.URL, body)
		if err != nil {
			return trialbench.TrialOutcome{}, err
		}
		req.Header.Set("X-Probe-ID", uuid.New().String())
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			return trialbench.TrialOutcome{}, err
		}
		dialDone := time.Now()

		n, _ := io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		end := time.Now()

		outcome := trialbench.TrialOutcome{
			Passed: resp.StatusCode >= 200 && resp.StatusCode < 300,
			Measurements: []trialbench.Measurement{
				{Dimension: DimE2E, Latency: end.Sub(start)},
				{Dimension: DimService, Latency: dialDone.Sub(start)},
			},
			ResourceUsage: trialbench.ResourceUsage{
				Total:      int(n),
				Components: map[string]int{"response_bytes": int(n)},
			},
		}
		if !outcome.Passed {
			outcome.Err = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return outcome, nil
	}
}
