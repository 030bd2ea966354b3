package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/middleware"
	"github.com/actilog/actilog/internal/models"
)

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// dateLayout is the calendar-day format accepted by the search filter bounds.
const dateLayout = "2006-01-02"

// parseFilter builds a LogFilter from the request's query parameters. A lone
// date bound counts as absent, matching the search semantics.
func parseFilter(c *gin.Context) (models.LogFilter, error) {
	filter := models.LogFilter{
		Text:     c.Query("text"),
		Username: c.Query("username"),
		Category: models.ActionCategory(c.Query("category")),
	}

	if !filter.Category.Valid() {
		return models.LogFilter{}, fmt.Errorf("category must be one of created, updated, trashed, deleted")
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		return models.LogFilter{}, fmt.Errorf("invalid start_date: %w", err)
	}

	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		return models.LogFilter{}, fmt.Errorf("invalid end_date: %w", err)
	}

	if start != nil && end != nil && end.Before(*start) {
		return models.LogFilter{}, fmt.Errorf("end_date precedes start_date")
	}

	filter.StartDate = start
	filter.EndDate = end

	return filter, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("use YYYY-MM-DD")
	}

	return &t, nil
}
