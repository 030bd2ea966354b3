package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/models"
)

// LogHandler serves log read and deletion endpoints.
type LogHandler struct {
	reader  LogReader
	deleter LogDeleter
	log     *logrus.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(reader LogReader, deleter LogDeleter, log *logrus.Logger) *LogHandler {
	return &LogHandler{reader: reader, deleter: deleter, log: log}
}

// List handles GET /api/v1/logs — every entry, newest first.
func (h *LogHandler) List(c *gin.Context) {
	entries, err := h.reader.ListAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list log entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to list log entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"count": len(entries),
	})
}

// Search handles GET /api/v1/logs/search with optional text, username,
// category, start_date, and end_date query parameters.
func (h *LogHandler) Search(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	entries, err := h.reader.Search(c.Request.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("failed to search log entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to search log entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"count": len(entries),
	})
}

// Usernames handles GET /api/v1/logs/usernames — the distinct usernames that
// appear in the log, for populating filter dropdowns.
func (h *LogHandler) Usernames(c *gin.Context) {
	names, err := h.reader.Usernames(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list usernames")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to list usernames")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  names,
		"count": len(names),
	})
}

// Delete handles DELETE /api/v1/logs/:id. The confirm_token query parameter
// must carry a valid token for this entry.
func (h *LogHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "id must be a positive integer")
		return
	}

	err = h.deleter.Delete(c.Request.Context(), id, c.Query("confirm_token"))
	if err != nil {
		h.deletionError(c, err, "failed to delete log entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// bulkDeleteRequest is the JSON payload for POST /api/v1/logs/bulk-delete.
// IDs arrive as strings because they come straight from form checkboxes;
// non-numeric values are discarded server-side.
type bulkDeleteRequest struct {
	IDs          []string `json:"ids" binding:"required"`
	ConfirmToken string   `json:"confirm_token"`
}

// BulkDelete handles POST /api/v1/logs/bulk-delete.
func (h *LogHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	deleted, err := h.deleter.BulkDelete(c.Request.Context(), req.IDs, req.ConfirmToken)
	if err != nil {
		h.deletionError(c, err, "failed to bulk delete log entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *LogHandler) deletionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrInvalidToken):
		respondError(c, http.StatusForbidden, ErrCodeInvalidToken, "missing or expired confirmation token")
	case errors.Is(err, models.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		h.log.WithError(err).Error(fallback)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, fallback)
	}
}
