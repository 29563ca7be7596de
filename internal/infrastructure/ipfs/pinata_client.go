package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
)

// PinataConfig holds the Pinata pinning service settings
type PinataConfig struct {
	URL     string
	JWT     string
	Timeout time.Duration
}

// Validate checks the Pinata configuration
func (c *PinataConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("pinata: URL is required")
	}
	if strings.TrimSpace(c.JWT) == "" {
		return fmt.Errorf("pinata: JWT is required")
	}
	return nil
}

// PinataClient pins JSON documents through the Pinata pinning API
type PinataClient struct {
	config     *PinataConfig
	httpClient *http.Client
}

// NewPinataClient creates a new Pinata client
func NewPinataClient(config *PinataConfig) (*PinataClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PinataClient{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

var _ checkout.Pinner = (*PinataClient)(nil)

type pinRequest struct {
	PinataContent  any         `json:"pinataContent"`
	PinataMetadata pinMetadata `json:"pinataMetadata"`
}

type pinMetadata struct {
	Name string `json:"name"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int    `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
	Error     any    `json:"error"`
}

// PinJSON pins the given content as JSON and returns its CID.
func (p *PinataClient) PinJSON(ctx context.Context, name string, content any) (string, error) {
	body, err := json.Marshal(pinRequest{
		PinataContent:  content,
		PinataMetadata: pinMetadata{Name: name},
	})
	if err != nil {
		return "", fmt.Errorf("pinata: failed to marshal content: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("pinata: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.JWT)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pinata: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata: upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result pinResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("pinata: invalid response: %w", err)
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("pinata: response missing IpfsHash")
	}

	return result.IpfsHash, nil
}
