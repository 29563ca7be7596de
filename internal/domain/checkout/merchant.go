package checkout

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Merchant is the process-wide merchant configuration, loaded once at start
// and read-only at runtime. Other contexts see it only through a read
// accessor.
type Merchant struct {
	SellerAddress    string          `json:"sellerAddress"`
	TokenAddress     string          `json:"tokenAddress"`
	ArbiterAddress   string          `json:"arbiterAddress,omitempty"`
	MaturityDays     int             `json:"maturityDays"`
	ChainID          int64           `json:"chainId"`
	CheckoutBaseURL  string          `json:"checkoutUrl"`
	EscrowFeePercent decimal.Decimal `json:"escrowFeePercent"`
}

// Validate checks address well-formedness and chain support. The arbiter is
// optional; when present it must be a valid address.
func (m *Merchant) Validate() error {
	if !common.IsHexAddress(m.SellerAddress) {
		return shared.NewDomainError(shared.CodeValidation, "Seller address is not a valid hex address")
	}
	if !common.IsHexAddress(m.TokenAddress) {
		return shared.NewDomainError(shared.CodeValidation, "Token address is not a valid hex address")
	}
	if m.ArbiterAddress != "" && !common.IsHexAddress(m.ArbiterAddress) {
		return shared.NewDomainError(shared.CodeValidation, "Arbiter address is not a valid hex address")
	}
	if m.MaturityDays <= 0 {
		return shared.NewDomainError(shared.CodeValidation, "Maturity days must be positive")
	}
	if _, ok := ChainByID(m.ChainID); !ok {
		return shared.NewDomainError(shared.CodeValidation, "Unsupported chain id")
	}
	if m.CheckoutBaseURL == "" {
		return shared.NewDomainError(shared.CodeValidation, "Checkout base URL is required")
	}
	return nil
}

// Chain returns the registry entry for the merchant's configured chain.
func (m *Merchant) Chain() Chain {
	c, _ := ChainByID(m.ChainID)
	return c
}
