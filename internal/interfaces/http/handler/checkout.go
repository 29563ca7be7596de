package handler

import (
	"github.com/gin-gonic/gin"

	checkoutapp "github.com/palindromepay/PalindromeFox/internal/application/checkout"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/middleware"
)

// CheckoutHandler serves the checkout payload and payment endpoints
type CheckoutHandler struct {
	BaseHandler
	checkout *checkoutapp.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/checkout")
	{
		group.GET("/quote", h.Quote)
		group.GET("/url", h.HostedURL)
		group.POST("/pay", h.Pay)
	}
}

// Quote returns the order totals and escrow terms for the current cart
func (h *CheckoutHandler) Quote(c *gin.Context) {
	quote, err := h.checkout.Quote(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, quote)
}

type hostedURLResponse struct {
	URL string `json:"url"`
}

// HostedURL builds the hosted-checkout URL for the current cart
func (h *CheckoutHandler) HostedURL(c *gin.Context) {
	redirect := c.Query("redirect")
	if redirect == "" {
		h.BadRequest(c, "redirect query parameter is required")
		return
	}

	u, err := h.checkout.HostedCheckoutURL(c.Request.Context(), redirect)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, hostedURLResponse{URL: u})
}

// Pay runs the direct escrow payment flow for the current cart
func (h *CheckoutHandler) Pay(c *gin.Context) {
	var shipping checkoutapp.ShippingInput
	if err := c.ShouldBindJSON(&shipping); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.checkout.Pay(c.Request.Context(), shipping)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, result)
}
