package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
)

// MerchantHandler exposes the read-only merchant parameters the checkout UI
// needs: addresses, chain, and fee terms. Secrets never leave the server.
type MerchantHandler struct {
	BaseHandler
	merchant checkout.Merchant
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchant checkout.Merchant) *MerchantHandler {
	return &MerchantHandler{merchant: merchant}
}

// RegisterRoutes registers merchant routes
func (h *MerchantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/merchant", h.Get)
}

type merchantResponse struct {
	SellerAddress    string `json:"sellerAddress"`
	TokenAddress     string `json:"tokenAddress"`
	MaturityDays     int    `json:"maturityDays"`
	ChainID          int64  `json:"chainId"`
	ChainName        string `json:"chainName"`
	ExplorerBaseURL  string `json:"explorerBaseUrl"`
	EscrowFeePercent string `json:"escrowFeePercent"`
}

// Get returns the merchant escrow parameters
func (h *MerchantHandler) Get(c *gin.Context) {
	chain := h.merchant.Chain()
	h.Success(c, merchantResponse{
		SellerAddress:    h.merchant.SellerAddress,
		TokenAddress:     h.merchant.TokenAddress,
		MaturityDays:     h.merchant.MaturityDays,
		ChainID:          h.merchant.ChainID,
		ChainName:        chain.Name,
		ExplorerBaseURL:  chain.ExplorerURL,
		EscrowFeePercent: h.merchant.EscrowFeePercent.String(),
	})
}
