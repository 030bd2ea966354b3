// Package recorder is the single write path into the event store. It decides
// event eligibility, formats the human-readable action message, and appends
// the entry — best-effort: a recording fault never reaches the caller whose
// action triggered the event.
package recorder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/metrics"
	"github.com/actilog/actilog/internal/models"
)

// EntryStore is the data-access surface the recorder writes through.
type EntryStore interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, username, action string, logTime time.Time) (int64, error)
}

// SettingsProvider supplies the eligibility knobs from the configuration store.
type SettingsProvider interface {
	Get(ctx context.Context) (models.Settings, error)
}

// Invalidator clears cached read snapshots after a committed write.
type Invalidator interface {
	Invalidate()
}

// Recorder applies the eligibility policy and writes qualifying events.
type Recorder struct {
	store    EntryStore
	settings SettingsProvider
	cache    Invalidator
	log      *logrus.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Recorder.
func New(store EntryStore, settings SettingsProvider, cache Invalidator, log *logrus.Logger) *Recorder {
	return &Recorder{
		store:    store,
		settings: settings,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Record evaluates eligibility, formats and appends one entry. It never
// returns an error: recording is fire-and-forget from the triggering
// action's perspective, so every fault is logged internally and the event
// dropped. sess carries the login-time identity needed for logout events.
func (r *Recorder) Record(ctx context.Context, event models.Event, sess *models.Session) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.EventsDropped.Inc()
			r.log.WithField("category", event.Category).Errorf("recorder fault: %v", rec)
		}
	}()

	settings, err := r.settings.Get(ctx)
	if err != nil {
		// Policy unavailable: drop rather than block or guess.
		metrics.EventsDropped.Inc()
		r.log.WithError(err).Warn("loading recorder settings")

		return
	}

	if reason := exclusionReason(event, settings); reason != "" {
		metrics.EventsDiscarded.WithLabelValues(reason).Inc()
		r.log.WithFields(logrus.Fields{
			"category": event.Category,
			"reason":   reason,
		}).Debug("event discarded by policy")

		return
	}

	username, message, ok := formatMessage(event, sess)
	if !ok {
		metrics.EventsDiscarded.WithLabelValues("not_loggable").Inc()

		return
	}

	username = truncateUsername(username)

	if err := r.store.EnsureSchema(ctx); err != nil {
		metrics.EventsDropped.Inc()
		r.log.WithError(err).Warn("ensuring log schema")

		return
	}

	id, err := r.store.Insert(ctx, username, message, r.now())
	if err != nil {
		metrics.EventsDropped.Inc()
		r.log.WithError(err).Warn("inserting log entry")

		return
	}

	// Invalidation strictly after the committed insert so no reader can
	// repopulate the cache with pre-write data.
	r.cache.Invalidate()
	metrics.EventsRecorded.Inc()

	r.log.WithFields(logrus.Fields{
		"id":       id,
		"category": event.Category,
		"username": username,
	}).Debug("event recorded")
}

// exclusionReason evaluates the ordered eligibility policy, returning the
// first matching exclusion or "" when the event should be logged.
func exclusionReason(event models.Event, settings models.Settings) string {
	if event.Background && !settings.IncludeCron {
		return "cron"
	}

	if event.Category == models.EventOptionUpdated {
		if !settings.IncludeTransients && hasAnyPrefix(event.OptionKey, models.TransientPrefixes) {
			return "transient"
		}

		if hasAnyPrefix(event.OptionKey, settings.ExcludedOptionPrefixes) {
			return "excluded_prefix"
		}
	}

	if event.Autosave || event.Preview {
		return "autosave_preview"
	}

	// Saves of already-trashed content are covered by the trash event.
	if event.Category == models.EventContentSaved && event.ContentStatus == models.ContentStatusTrash {
		return "trash_status"
	}

	return ""
}

// truncateUsername caps the stored username at the column's character limit.
// The cap counts runes, not bytes: a byte slice could cut a multibyte rune in
// half and produce invalid UTF-8, which Postgres rejects.
func truncateUsername(username string) string {
	runes := []rune(username)
	if len(runes) <= models.MaxUsernameLen {
		return username
	}

	return string(runes[:models.MaxUsernameLen])
}

// hasAnyPrefix reports whether key starts with any listed prefix, compared
// left-to-right, case-sensitive, against the raw key.
func hasAnyPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}

	return false
}

// actorName resolves the acting principal, substituting the guest sentinel.
func actorName(event models.Event) string {
	if event.Actor == "" {
		return models.GuestUsername
	}

	return event.Actor
}

// formatMessage builds the stored username and action text for an event.
// ok is false when the category yields nothing loggable (e.g. a profile
// update with no watched-field change, or a logout with no captured session).
func formatMessage(event models.Event, sess *models.Session) (username, message string, ok bool) {
	actor := actorName(event)

	switch event.Category {
	case models.EventContentSaved:
		verb := "created"
		if event.Update {
			verb = "updated"
		}

		return actor, fmt.Sprintf("%s %s: %s (ID: %d) by user %s",
			typeLabel(event), verb, titleOrPlaceholder(event.ContentTitle), event.ContentID, actor), true

	case models.EventContentDeleted:
		if event.IsAttachment {
			return actor, fmt.Sprintf("Media deleted: %s (ID: %d) by user %s",
				attachmentName(event), event.ContentID, actor), true
		}

		return actor, fmt.Sprintf("%s deleted: %s (ID: %d) by user %s",
			typeLabel(event), event.ContentTitle, event.ContentID, actor), true

	case models.EventContentTrashed:
		return actor, fmt.Sprintf("%s trashed: %s (ID: %d) by user %s",
			typeLabel(event), event.ContentTitle, event.ContentID, actor), true

	case models.EventAttachmentUploaded:
		return actor, fmt.Sprintf("Media uploaded: %s (ID: %d) by user %s",
			attachmentName(event), event.ContentID, actor), true

	case models.EventOptionUpdated:
		return actor, fmt.Sprintf("Option updated: %s by user %s", event.OptionKey, actor), true

	case models.EventPluginActivated:
		return actor, fmt.Sprintf("Plugin activated: %s by user %s", event.PluginName, actor), true

	case models.EventPluginDeactivated:
		return actor, fmt.Sprintf("Plugin deactivated: %s by user %s", event.PluginName, actor), true

	case models.EventProfileUpdated:
		changes := profileChanges(event.OldProfile, event.NewProfile)
		if len(changes) == 0 {
			return "", "", false
		}

		return actor, fmt.Sprintf("Profile updated: %s (ID: %d) changed %s by user %s",
			event.SubjectUsername, event.SubjectID, strings.Join(changes, ", "), actor), true

	case models.EventLogin:
		return event.SubjectUsername, fmt.Sprintf("User logged in: %s (ID: %d)",
			event.SubjectUsername, event.SubjectID), true

	case models.EventLogout:
		// The principal is no longer resolvable at logout; use the identity
		// captured in the session context at login.
		if sess == nil || sess.Username == "" {
			return "", "", false
		}

		return sess.Username, fmt.Sprintf("User logged out: %s", sess.Username), true

	case models.EventPasswordReset:
		return actor, fmt.Sprintf("Password reset: %s (ID: %d)",
			event.SubjectUsername, event.SubjectID), true
	}

	return "", "", false
}

// typeLabel falls back to a generic content label when the host omits one.
func typeLabel(event models.Event) string {
	if event.TypeLabel == "" {
		return "Post"
	}

	return event.TypeLabel
}

func titleOrPlaceholder(title string) string {
	if title == "" {
		return "(no title)"
	}

	return title
}

// attachmentName resolves the filename from the stored file path, falling
// back to the title when no path is available.
func attachmentName(event models.Event) string {
	if event.FilePath == "" {
		return event.ContentTitle
	}

	return filepath.Base(event.FilePath)
}

// profileChanges lists which watched profile fields differ between the two
// snapshots, in a fixed order.
func profileChanges(old, updated *models.ProfileSnapshot) []string {
	if old == nil || updated == nil {
		return nil
	}

	var changes []string
	if old.Email != updated.Email {
		changes = append(changes, "email")
	}
	if old.FirstName != updated.FirstName {
		changes = append(changes, "first name")
	}
	if old.LastName != updated.LastName {
		changes = append(changes, "last name")
	}

	return changes
}
