package reward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// distributePath is the share-distribution endpoint on the reward
// service.
const distributePath = "/api/fractionalize/distribute"

// Client calls the external NFT fractionalization service that pays
// out winner shares. The response body is treated as an opaque receipt.
type Client struct {
	baseURL        string
	shareTokenMint string
	httpClient     *http.Client
	logger         *logrus.Logger
}

// Config configures the reward client.
type Config struct {
	BaseURL        string
	ShareTokenMint string
	Timeout        int // seconds
}

// NewClient creates a reward client with a bounded request timeout.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		shareTokenMint: cfg.ShareTokenMint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: logger,
	}
}

// Distribution is one payout entry.
type Distribution struct {
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipientName"`
	RecipientID   string `json:"recipientId"`
	Amount        int    `json:"amount"`
	Note          string `json:"note"`
}

type distributeRequest struct {
	ShareTokenMint string         `json:"shareTokenMint"`
	Distributions  []Distribution `json:"distributions"`
}

// Distribute sends one or more share payouts and returns the raw
// service response. Any transport error or non-2xx status is an error;
// callers decide whether that failure gates anything.
func (c *Client) Distribute(ctx context.Context, distributions []Distribution) (json.RawMessage, error) {
	reqBody := distributeRequest{
		ShareTokenMint: c.shareTokenMint,
		Distributions:  distributions,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+distributePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("reward distribute request failed")
		return nil, fmt.Errorf("reward service request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reward service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.WithField("status", resp.StatusCode).
			WithField("body", truncate(string(respBody), 512)).
			Warn("reward service returned an error")
		return nil, fmt.Errorf("reward service error %d: %s", resp.StatusCode, truncate(string(respBody), 256))
	}

	c.logger.WithField("recipients", len(distributions)).Debug("reward distribution accepted")
	return json.RawMessage(respBody), nil
}

// Ping checks reward service connectivity.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reward service ping status %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
