package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
)

// CartHandler serves the cart aggregation endpoints
type CartHandler struct {
	BaseHandler
	carts *cartapp.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cartapp.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Get)
		cart.DELETE("", h.Clear)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

type cartResponse struct {
	Items cartdomain.Cart `json:"items"`
	Count int             `json:"count"`
	Total string          `json:"total"`
}

func newCartResponse(items cartdomain.Cart) cartResponse {
	return cartResponse{
		Items: items,
		Count: len(items),
		Total: items.Total().StringFixed(2),
	}
}

// Get returns the current cart contents
func (h *CartHandler) Get(c *gin.Context) {
	items, err := h.carts.GetCart(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, newCartResponse(items))
}

// AddItem adds a captured product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var raw cartdomain.RawProduct
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.carts.Add(c.Request.Context(), raw)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, result)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line item's quantity; zero or below removes it
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, newCartResponse(items))
}

// RemoveItem removes a line item; unknown ids succeed unchanged
func (h *CartHandler) RemoveItem(c *gin.Context) {
	items, err := h.carts.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, newCartResponse(items))
}

// Clear empties the cart, leaving the saved recipient identity in place
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context()); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}
