package models

// ExportArtifact is a fully rendered CSV export: transient, delivered once
// as a download, never persisted.
type ExportArtifact struct {
	// Filename embeds the generation timestamp to the second so concurrent
	// exports never collide.
	Filename string
	Data     []byte
}
