package escrow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
)

const createAndDepositPath = "/escrow/create-and-deposit"

// BridgeConfig holds the transaction signer bridge settings. The bridge is a
// co-located service holding the buyer wallet; this process never sees keys.
type BridgeConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Validate checks the bridge configuration
func (c *BridgeConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("escrow bridge: base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("escrow bridge: invalid base URL %q", c.BaseURL)
	}
	return nil
}

// BridgeAdapter implements the escrow gateway against the signer bridge
type BridgeAdapter struct {
	config     *BridgeConfig
	httpClient *http.Client
}

// NewBridgeAdapter creates a new bridge adapter
func NewBridgeAdapter(config *BridgeConfig) (*BridgeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout == 0 {
		// escrow creation waits for on-chain confirmation
		timeout = 90 * time.Second
	}
	return &BridgeAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

var _ checkout.EscrowGateway = (*BridgeAdapter)(nil)

type bridgeCreateRequest struct {
	Token            string `json:"token"`
	Seller           string `json:"seller"`
	Amount           uint64 `json:"amount"`
	MaturityTimeDays int    `json:"maturityTimeDays"`
	Arbiter          string `json:"arbiter,omitempty"`
	Title            string `json:"title"`
	IPFSHash         string `json:"ipfsHash"`
	ChainID          int64  `json:"chainId"`
}

type bridgeCreateResponse struct {
	Success       bool   `json:"success"`
	TxHash        string `json:"txHash"`
	EscrowID      string `json:"escrowId"`
	WalletAddress string `json:"walletAddress"`
	Error         string `json:"error"`
}

// CreateEscrowAndDeposit submits a create-and-deposit request to the bridge
// and waits for the transaction result.
func (a *BridgeAdapter) CreateEscrowAndDeposit(ctx context.Context, req checkout.CreateEscrowRequest) (*checkout.CreateEscrowResponse, error) {
	if !common.IsHexAddress(req.Token) {
		return nil, fmt.Errorf("escrow bridge: invalid token address %q", req.Token)
	}
	if !common.IsHexAddress(req.Seller) {
		return nil, fmt.Errorf("escrow bridge: invalid seller address %q", req.Seller)
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("escrow bridge: amount must be positive")
	}

	body, err := json.Marshal(bridgeCreateRequest{
		Token:            req.Token,
		Seller:           req.Seller,
		Amount:           req.Amount,
		MaturityTimeDays: req.MaturityTimeDays,
		Arbiter:          req.Arbiter,
		Title:            req.Title,
		IPFSHash:         req.IPFSHash,
		ChainID:          req.ChainID,
	})
	if err != nil {
		return nil, fmt.Errorf("escrow bridge: failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(a.config.BaseURL, "/") + createAndDepositPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("escrow bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("escrow bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("escrow bridge: failed to read response: %w", err)
	}

	var result bridgeCreateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("escrow bridge: invalid response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("bridge returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("escrow bridge: %s", msg)
	}
	if result.TxHash == "" {
		return nil, fmt.Errorf("escrow bridge: response missing transaction hash")
	}

	return &checkout.CreateEscrowResponse{
		TxHash:        result.TxHash,
		EscrowID:      result.EscrowID,
		WalletAddress: result.WalletAddress,
	}, nil
}
