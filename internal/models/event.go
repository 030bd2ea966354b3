package models

// EventCategory tags an incoming host event with its lifecycle kind.
type EventCategory string

// Event categories delivered by the host.
const (
	EventContentSaved       EventCategory = "content.saved"
	EventContentDeleted     EventCategory = "content.deleted"
	EventContentTrashed     EventCategory = "content.trashed"
	EventAttachmentUploaded EventCategory = "attachment.uploaded"
	EventOptionUpdated      EventCategory = "option.updated"
	EventPluginActivated    EventCategory = "plugin.activated"
	EventPluginDeactivated  EventCategory = "plugin.deactivated"
	EventProfileUpdated     EventCategory = "profile.updated"
	EventLogin              EventCategory = "auth.login"
	EventLogout             EventCategory = "auth.logout"
	EventPasswordReset      EventCategory = "auth.password_reset"
)

// ContentStatus values relevant to eligibility.
const (
	ContentStatusTrash = "trash"
)

// Event is one structured lifecycle event from the host. Category decides
// which payload fields are meaningful; unused fields stay zero.
type Event struct {
	Category EventCategory `json:"category"`

	// Actor is the acting principal's username. Empty means unauthenticated;
	// the recorder substitutes GuestUsername.
	Actor string `json:"actor,omitempty"`

	// Background marks unattended execution (cron jobs, scheduled tasks).
	// Autosave and Preview mark autosave/revision writes and preview-only
	// rendering contexts; both are never loggable.
	Background bool `json:"background,omitempty"`
	Autosave   bool `json:"autosave,omitempty"`
	Preview    bool `json:"preview,omitempty"`

	// Content fields (content.*, attachment.uploaded).
	ContentID     int64  `json:"content_id,omitempty"`
	ContentTitle  string `json:"content_title,omitempty"`
	ContentStatus string `json:"content_status,omitempty"`
	// TypeLabel is the human-readable singular content type ("Post", "Page").
	TypeLabel string `json:"type_label,omitempty"`
	// IsAttachment distinguishes binary attachments from ordinary content.
	IsAttachment bool `json:"is_attachment,omitempty"`
	// FilePath is the stored path of an attachment; the recorder reports its
	// base filename, falling back to ContentTitle when empty.
	FilePath string `json:"file_path,omitempty"`
	// Update distinguishes content.saved updates from first-time creates.
	Update bool `json:"update,omitempty"`

	// Option fields (option.updated).
	OptionKey string `json:"option_key,omitempty"`

	// Plugin fields (plugin.activated / plugin.deactivated).
	PluginName string `json:"plugin_name,omitempty"`

	// Profile fields (profile.updated, auth.*). SubjectID is the affected
	// user's stable numeric identifier.
	SubjectUsername string           `json:"subject_username,omitempty"`
	SubjectID       int64            `json:"subject_id,omitempty"`
	OldProfile      *ProfileSnapshot `json:"old_profile,omitempty"`
	NewProfile      *ProfileSnapshot `json:"new_profile,omitempty"`
}

// ProfileSnapshot carries the watched profile fields before or after an update.
type ProfileSnapshot struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Session carries the acting principal's identity from login onward so it is
// still available at logout, when the principal is no longer resolvable.
type Session struct {
	Username string `json:"username"`
}
