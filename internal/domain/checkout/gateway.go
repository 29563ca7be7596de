package checkout

import (
	"context"
	"time"
)

// CreateEscrowRequest is the structured request consumed by the escrow
// gateway's create-and-deposit operation. Amount is an integer in the
// settlement token's smallest units (6-decimal fixed point).
type CreateEscrowRequest struct {
	Token            string `json:"token"`
	Seller           string `json:"seller"`
	Amount           uint64 `json:"amount"`
	MaturityTimeDays int    `json:"maturityTimeDays"`
	Arbiter          string `json:"arbiter,omitempty"`
	Title            string `json:"title"`
	IPFSHash         string `json:"ipfsHash"`
	ChainID          int64  `json:"chainId"`
}

// CreateEscrowResponse is the confirmed result of an escrow creation.
type CreateEscrowResponse struct {
	TxHash        string `json:"txHash"`
	EscrowID      string `json:"escrowId,omitempty"`
	WalletAddress string `json:"walletAddress"`
}

// EscrowGateway creates held-funds payment contracts. Failures are surfaced
// verbatim as EXTERNAL_SERVICE_ERROR and never retried automatically; the
// cart is left intact so the user can retry manually.
type EscrowGateway interface {
	CreateEscrowAndDeposit(ctx context.Context, req CreateEscrowRequest) (*CreateEscrowResponse, error)
}

// ShippingAddress is the delivery payload pinned to IPFS before escrow
// creation. The escrow contract only ever sees an encrypted pointer to it.
type ShippingAddress struct {
	FullName       string    `json:"fullName"`
	StreetAddress  string    `json:"streetAddress"`
	StreetAddress2 string    `json:"streetAddress2,omitempty"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	ZipCode        string    `json:"zipCode"`
	Country        string    `json:"country"`
	Phone          string    `json:"phone,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	OrderRef       string    `json:"orderRef"`
}

// Pinner uploads a JSON document to content-addressed storage and returns
// its content identifier.
type Pinner interface {
	PinJSON(ctx context.Context, name string, content any) (string, error)
}

// Encryptor seals a JSON-serializable payload and returns an opaque envelope
// string embedded verbatim in the escrow request.
type Encryptor interface {
	Seal(plaintext []byte) (string, error)
}
