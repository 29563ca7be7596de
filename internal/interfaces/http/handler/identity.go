package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/middleware"
)

// IdentityHandler serves the saved recipient identity endpoints
type IdentityHandler struct {
	BaseHandler
	carts *cartapp.Service
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(carts *cartapp.Service) *IdentityHandler {
	return &IdentityHandler{carts: carts}
}

// RegisterRoutes registers identity routes
func (h *IdentityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	identity := rg.Group("/identity")
	{
		identity.GET("", h.Get)
		identity.PUT("", h.Save)
	}
}

type identityResponse struct {
	Email         string `json:"email"`
	RecipientName string `json:"recipientName"`
	Saved         bool   `json:"saved"`
}

// Get returns the saved recipient identity, if any
func (h *IdentityHandler) Get(c *gin.Context) {
	identity, err := h.carts.GetIdentity(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if identity == nil {
		h.Success(c, identityResponse{})
		return
	}
	h.Success(c, identityResponse{
		Email:         identity.Email,
		RecipientName: identity.RecipientName,
		Saved:         true,
	})
}

type saveIdentityRequest struct {
	Email         string `json:"email" binding:"required,email"`
	ConfirmEmail  string `json:"confirmEmail" binding:"required,eqfield=Email"`
	RecipientName string `json:"recipientName" binding:"required"`
}

// Save stores the recipient identity. The confirmation email must match the
// email exactly; the mismatch is surfaced before anything is written.
func (h *IdentityHandler) Save(c *gin.Context) {
	var req saveIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	identity := cartdomain.RecipientIdentity{
		Email:         strings.TrimSpace(req.Email),
		RecipientName: strings.TrimSpace(req.RecipientName),
	}
	if err := h.carts.SaveIdentity(c.Request.Context(), identity); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, identityResponse{
		Email:         identity.Email,
		RecipientName: identity.RecipientName,
		Saved:         true,
	})
}
