package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/models"
)

// SettingsHandler serves the recorder eligibility settings.
type SettingsHandler struct {
	svc SettingsManager
	log *logrus.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc SettingsManager, log *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to load settings")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/v1/settings. The payload replaces all settings;
// omitted fields fall back to their zero values.
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Update(c.Request.Context(), settings); err != nil {
		h.log.WithError(err).Error("failed to update settings")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
