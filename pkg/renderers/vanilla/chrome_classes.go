package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPanel   ChromeClass = "settingsgen-panel"
	ClassHeader  ChromeClass = "settingsgen-header"
	ClassSection ChromeClass = "settingsgen-section"
	ClassControl ChromeClass = "settingsgen-control"
	ClassChild   ChromeClass = "settingsgen-control--child"
	ClassLabel   ChromeClass = "settingsgen-label"
	ClassHelp    ChromeClass = "settingsgen-help"
	ClassIcon    ChromeClass = "settingsgen-icon"
	ClassError   ChromeClass = "settingsgen-error"
)

func chromeClasses() map[string]any {
	return map[string]any{
		"panel":   string(ClassPanel),
		"header":  string(ClassHeader),
		"section": string(ClassSection),
		"control": string(ClassControl),
		"child":   string(ClassChild),
		"label":   string(ClassLabel),
		"help":    string(ClassHelp),
		"icon":    string(ClassIcon),
		"error":   string(ClassError),
	}
}
