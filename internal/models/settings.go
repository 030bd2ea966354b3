package models

// TransientPrefixes are the ephemeral-storage key prefixes skipped when
// include_transients is off. Plain prefix comparison, case-sensitive.
var TransientPrefixes = []string{"_transient_", "_site_transient_"}

// Settings are the recorder's eligibility knobs, held in the external
// key-value configuration store.
type Settings struct {
	// IncludeCron logs events from unattended/background execution contexts.
	IncludeCron bool `json:"include_cron"`
	// IncludeTransients logs option updates whose key carries a transient prefix.
	IncludeTransients bool `json:"include_transients"`
	// ExcludedOptionPrefixes drops option updates whose key starts with any
	// listed prefix, compared left-to-right against the raw key.
	ExcludedOptionPrefixes []string `json:"excluded_option_prefixes"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		IncludeCron:            false,
		IncludeTransients:      true,
		ExcludedOptionPrefixes: nil,
	}
}
