package shortcuts

// Commands emitted by the default table
const (
	CommandAnalyze         = "analyze"
	CommandUpload          = "upload"
	CommandSaveHistory     = "save-history"
	CommandExport          = "export"
	CommandExportJSON      = "export-json"
	CommandToggleBoxes     = "toggle-bounding-boxes"
	CommandToggleHistory   = "toggle-history"
	CommandToggleTheme     = "toggle-theme"
	CommandFocusKeywords   = "focus-keywords"
	CommandShowShortcuts   = "show-shortcuts"
	CommandCloseDialog     = "close-dialog"
	CommandNextSection     = "next-section"
	CommandPreviousSection = "previous-section"
)

// DefaultBindings returns the application's shortcut table. Every action
// calls emit with its command name.
func DefaultBindings(emit func(command string)) []Binding {
	bind := func(b Binding) Binding {
		command := b.Command
		b.Action = func() { emit(command) }
		return b
	}

	return []Binding{
		bind(Binding{Key: "Enter", Ctrl: true, Command: CommandAnalyze, Description: "Analyze the current screenshot", Category: "Analysis"}),
		bind(Binding{Key: "o", Ctrl: true, Command: CommandUpload, Description: "Upload a screenshot", Category: "Analysis"}),
		bind(Binding{Key: "k", Ctrl: true, Command: CommandFocusKeywords, Description: "Focus the keywords field", Category: "Analysis"}),
		bind(Binding{Key: "s", Ctrl: true, Command: CommandSaveHistory, Description: "Save analysis to history", Category: "History"}),
		bind(Binding{Key: "h", Ctrl: true, Command: CommandToggleHistory, Description: "Show or hide history", Category: "History"}),
		bind(Binding{Key: "e", Ctrl: true, Command: CommandExport, Description: "Export in the default format", Category: "Export"}),
		bind(Binding{Key: "e", Ctrl: true, Shift: true, Command: CommandExportJSON, Description: "Export as JSON", Category: "Export"}),
		bind(Binding{Key: "b", Ctrl: true, Command: CommandToggleBoxes, Description: "Toggle bounding boxes", Category: "View"}),
		bind(Binding{Key: "t", Ctrl: true, Shift: true, Command: CommandToggleTheme, Description: "Toggle theme", Category: "View"}),
		bind(Binding{Key: "ArrowDown", Alt: true, Command: CommandNextSection, Description: "Select next section", Category: "View"}),
		bind(Binding{Key: "ArrowUp", Alt: true, Command: CommandPreviousSection, Description: "Select previous section", Category: "View"}),
		bind(Binding{Key: "/", Ctrl: true, Command: CommandShowShortcuts, Description: "Show keyboard shortcuts", Category: "Help"}),
		bind(Binding{Key: "Escape", Command: CommandCloseDialog, Description: "Close the open dialog", Category: "Help"}),
	}
}
