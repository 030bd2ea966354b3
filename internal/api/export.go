package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExportHandler serves CSV downloads of the log.
type ExportHandler struct {
	exporter Exporter
	log      *logrus.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exporter Exporter, log *logrus.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, log: log}
}

// Download handles GET /api/v1/logs/export. It accepts the same filter query
// parameters as search; without any, the full log is exported.
func (h *ExportHandler) Download(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	artifact, err := h.exporter.Export(c.Request.Context(), &filter)
	if err != nil {
		h.log.WithError(err).Error("failed to export log entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to export log entries")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", artifact.Data)
}
