package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/recorder"
)

// EventHandler ingests host lifecycle events for asynchronous recording.
type EventHandler struct {
	sink EventSink
	log  *logrus.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(sink EventSink, log *logrus.Logger) *EventHandler {
	return &EventHandler{sink: sink, log: log}
}

// ingestRequest is the JSON payload for POST /api/v1/events. Session carries
// the login-time identity so logout events can still name the user.
type ingestRequest struct {
	Event   models.Event    `json:"event"`
	Session *models.Session `json:"session,omitempty"`
}

// Record handles POST /api/v1/events. Events are queued and recorded in the
// background; ingestion never reports recording failures back to the host.
func (h *EventHandler) Record(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Event.Category == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "event category is required")
		return
	}

	h.sink.Enqueue(&recorder.Job{Event: req.Event, Session: req.Session})

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
