package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// DomainError maps a service-layer error onto the response envelope. Errors
// without a domain code are masked as internal.
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	code := shared.CodeOf(err)
	if code == "" {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Internal server error")
		return
	}
	h.Error(c, dto.GetHTTPStatus(code), code, err.Error())
}
