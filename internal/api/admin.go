package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// teardownConfirmPhrase must be echoed in the request body before the service
// drops its data. This is an accident guard, not an authorization mechanism.
const teardownConfirmPhrase = "delete-all-data"

// AdminHandler serves destructive maintenance endpoints.
type AdminHandler struct {
	deleter LogDeleter
	log     *logrus.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(deleter LogDeleter, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{deleter: deleter, log: log}
}

type teardownRequest struct {
	Confirm string `json:"confirm"`
}

// Teardown handles POST /api/v1/admin/teardown. It irreversibly removes the
// log table, all stored settings, and the migration bookkeeping, mirroring a
// full uninstall; restarting the service afterwards installs from scratch.
func (h *AdminHandler) Teardown(c *gin.Context) {
	var req teardownRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != teardownConfirmPhrase {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest,
			`teardown requires body {"confirm": "`+teardownConfirmPhrase+`"}`)
		return
	}

	removed, err := h.deleter.Teardown(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("teardown failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "teardown failed")
		return
	}

	h.log.Warn("teardown complete, all log data and settings removed")
	c.JSON(http.StatusOK, gin.H{"status": "torn_down", "entries_removed": removed})
}
