// Package azure wraps the Azure Read REST API used to verify
// hand-drawn letters. Submission returns 202 with an Operation-Location
// header; results are polled at a fixed interval with a bounded attempt
// count so a stuck operation surfaces as ErrTimeout instead of hanging
// the request.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/playfinity/playfinity-backend/internal/pkg/ctxutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/envutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/httpx"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

// ErrTimeout reports that the read operation did not finish within the
// polling window. Callers treat it as its own failure kind, distinct
// from a failed analysis.
var ErrTimeout = errors.New("azure read: operation timed out")

// ReadResult carries every line of text the service recognized.
type ReadResult struct {
	Texts    []string
	FullText string
}

type ReadClient interface {
	RecognizeText(ctx context.Context, img []byte) (*ReadResult, error)
}

type readClient struct {
	log        *logger.Logger
	endpoint   string
	key        string
	httpClient *http.Client

	pollInterval time.Duration
	maxAttempts  int
}

func NewReadClient(log *logger.Logger) (ReadClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := envutil.Get("AZURE_VISION_KEY", "")
	if key == "" {
		return nil, fmt.Errorf("missing AZURE_VISION_KEY")
	}
	endpoint := strings.TrimRight(envutil.Get("AZURE_VISION_ENDPOINT", ""), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("missing AZURE_VISION_ENDPOINT")
	}

	timeoutSec := envutil.Int("AZURE_VISION_TIMEOUT_SECONDS", 30)

	return &readClient{
		log:          log.With("service", "azure.ReadClient"),
		endpoint:     endpoint,
		key:          key,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		pollInterval: envutil.Duration("AZURE_READ_POLL_INTERVAL", time.Second),
		maxAttempts:  envutil.Int("AZURE_READ_MAX_ATTEMPTS", 10),
	}, nil
}

type azureHTTPError struct {
	StatusCode int
	Body       string
}

func (e *azureHTTPError) Error() string {
	return fmt.Sprintf("azure http %d: %s", e.StatusCode, e.Body)
}

func (e *azureHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type readAnalysis struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

func (c *readClient) RecognizeText(ctx context.Context, img []byte) (*ReadResult, error) {
	if len(img) == 0 {
		return nil, fmt.Errorf("image bytes required")
	}
	ctx = ctxutil.Default(ctx)

	opURL, err := c.submit(ctx, img)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		analysis, err := c.poll(ctx, opURL)
		if err != nil {
			if httpx.IsRetryableError(err) && attempt < c.maxAttempts-1 {
				c.log.Warn("Azure read poll retrying", "attempt", attempt+1, "error", err.Error())
			} else {
				return nil, err
			}
		} else {
			switch analysis.Status {
			case "succeeded":
				return collectLines(analysis), nil
			case "failed":
				return nil, fmt.Errorf("azure read: processing failed")
			}
		}
		if err := httpx.SleepContext(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}
	return nil, ErrTimeout
}

func (c *readClient) submit(ctx context.Context, img []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/vision/v3.2/read/analyze", bytes.NewReader(img))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", &azureHTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	opURL := strings.TrimSpace(resp.Header.Get("Operation-Location"))
	if opURL == "" {
		return "", fmt.Errorf("azure read: missing Operation-Location header")
	}
	return opURL, nil
}

func (c *readClient) poll(ctx context.Context, opURL string) (*readAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &azureHTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var analysis readAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, fmt.Errorf("azure read: decode poll response: %w", err)
	}
	return &analysis, nil
}

func collectLines(analysis *readAnalysis) *ReadResult {
	texts := []string{}
	for _, page := range analysis.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			if t := strings.TrimSpace(line.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	return &ReadResult{Texts: texts, FullText: strings.Join(texts, " ")}
}
