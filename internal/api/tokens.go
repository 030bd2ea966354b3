package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/actilog/actilog/internal/token"
)

// TokenHandler issues confirmation tokens for destructive operations. Clients
// fetch a token first and replay it with the delete request; tokens are
// scope-bound and expire on their own.
type TokenHandler struct {
	minter TokenMinter
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(minter TokenMinter) *TokenHandler {
	return &TokenHandler{minter: minter}
}

// DeleteToken handles GET /api/v1/tokens/delete/:id.
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "id must be a positive integer")
		return
	}

	scope := token.DeleteScope(id)
	c.JSON(http.StatusOK, gin.H{
		"scope": scope,
		"token": h.minter.Issue(scope),
	})
}

// BulkDeleteToken handles GET /api/v1/tokens/bulk-delete.
func (h *TokenHandler) BulkDeleteToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scope": token.BulkScope,
		"token": h.minter.Issue(token.BulkScope),
	})
}
