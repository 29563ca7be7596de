package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Quote is the checkout display summary. Monetary fields are 2-decimal
// fixed strings.
type Quote struct {
	Subtotal     string `json:"subtotal"`
	DeliveryFee  string `json:"deliveryFee"`
	Total        string `json:"total"`
	EscrowFee    string `json:"escrowFee"`
	TotalWithFee string `json:"totalWithFee"`
	Summary      string `json:"summary"`
	MaturityDays int    `json:"maturityDays"`
	ChainName    string `json:"chainName"`
	ItemCount    int    `json:"itemCount"`
}

// ShippingInput is the shipping address as submitted by the checkout page.
type ShippingInput struct {
	FullName       string `json:"fullName" binding:"required"`
	StreetAddress  string `json:"streetAddress" binding:"required"`
	StreetAddress2 string `json:"streetAddress2"`
	City           string `json:"city" binding:"required"`
	State          string `json:"state" binding:"required"`
	ZipCode        string `json:"zipCode" binding:"required"`
	Country        string `json:"country" binding:"required"`
	Phone          string `json:"phone"`
}

// toAddress validates the required shipping fields and stamps the order
// reference.
func (in ShippingInput) toAddress(at time.Time) (*checkout.ShippingAddress, error) {
	missing := []string{}
	for field, value := range map[string]string{
		"fullName":      in.FullName,
		"streetAddress": in.StreetAddress,
		"city":          in.City,
		"state":         in.State,
		"zipCode":       in.ZipCode,
		"country":       in.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Missing required shipping fields")
	}

	return &checkout.ShippingAddress{
		FullName:       strings.TrimSpace(in.FullName),
		StreetAddress:  strings.TrimSpace(in.StreetAddress),
		StreetAddress2: strings.TrimSpace(in.StreetAddress2),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		ZipCode:        strings.TrimSpace(in.ZipCode),
		Country:        in.Country,
		Phone:          strings.TrimSpace(in.Phone),
		Timestamp:      at,
		OrderRef:       fmt.Sprintf("PP-%d", at.UnixMilli()),
	}, nil
}

// PaymentResult is the confirmed escrow creation surfaced to the UI.
type PaymentResult struct {
	TxHash        string `json:"txHash"`
	EscrowID      string `json:"escrowId,omitempty"`
	WalletAddress string `json:"walletAddress"`
	ExplorerURL   string `json:"explorerUrl"`
}
