package models

// UserPreferences is the singleton preferences record. Stored fields are
// always merged over DefaultPreferences on read.
type UserPreferences struct {
	Theme                 string       `json:"theme"`
	DefaultExportFormat   ExportFormat `json:"defaultExportFormat"`
	GenerateVariants      bool         `json:"generateVariants"`
	AutoSaveHistory       bool         `json:"autoSaveHistory"`
	ShowBoundingBoxes     bool         `json:"showBoundingBoxes"`
	KeyboardShortcuts     bool         `json:"keyboardShortcuts"`
	DefaultTargetAudience string       `json:"defaultTargetAudience"`
	Language              string       `json:"language"`
}

// DefaultPreferences returns the preferences used when nothing is stored
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Theme:               "dark",
		DefaultExportFormat: ExportMarkdown,
		GenerateVariants:    true,
		AutoSaveHistory:     true,
		ShowBoundingBoxes:   true,
		KeyboardShortcuts:   true,
		Language:            "en",
	}
}

// PreferencesPatch is a partial update; nil fields are left untouched
type PreferencesPatch struct {
	Theme                 *string       `json:"theme,omitempty"`
	DefaultExportFormat   *ExportFormat `json:"defaultExportFormat,omitempty"`
	GenerateVariants      *bool         `json:"generateVariants,omitempty"`
	AutoSaveHistory       *bool         `json:"autoSaveHistory,omitempty"`
	ShowBoundingBoxes     *bool         `json:"showBoundingBoxes,omitempty"`
	KeyboardShortcuts     *bool         `json:"keyboardShortcuts,omitempty"`
	DefaultTargetAudience *string       `json:"defaultTargetAudience,omitempty"`
	Language              *string       `json:"language,omitempty"`
}

// Apply merges the patch over p and returns the result
func (patch PreferencesPatch) Apply(p UserPreferences) UserPreferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.DefaultExportFormat != nil {
		p.DefaultExportFormat = *patch.DefaultExportFormat
	}
	if patch.GenerateVariants != nil {
		p.GenerateVariants = *patch.GenerateVariants
	}
	if patch.AutoSaveHistory != nil {
		p.AutoSaveHistory = *patch.AutoSaveHistory
	}
	if patch.ShowBoundingBoxes != nil {
		p.ShowBoundingBoxes = *patch.ShowBoundingBoxes
	}
	if patch.KeyboardShortcuts != nil {
		p.KeyboardShortcuts = *patch.KeyboardShortcuts
	}
	if patch.DefaultTargetAudience != nil {
		p.DefaultTargetAudience = *patch.DefaultTargetAudience
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	return p
}

// ExportFormat is one of the supported export serializations
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportJSON     ExportFormat = "json"
	ExportHTML     ExportFormat = "html"
	ExportCSV      ExportFormat = "csv"
)

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	switch f {
	case ExportMarkdown:
		return "md"
	case ExportJSON:
		return "json"
	case ExportHTML:
		return "html"
	case ExportCSV:
		return "csv"
	}
	return ""
}

// MIMEType returns the content type for the format
func (f ExportFormat) MIMEType() string {
	switch f {
	case ExportMarkdown:
		return "text/markdown"
	case ExportJSON:
		return "application/json"
	case ExportHTML:
		return "text/html"
	case ExportCSV:
		return "text/csv"
	}
	return ""
}

// Valid reports whether f is supported
func (f ExportFormat) Valid() bool {
	return f.Extension() != ""
}
