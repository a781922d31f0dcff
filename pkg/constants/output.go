package constants

// CLI Output Formatting
//
// These constants control the visual formatting of CLI output.
const (
	// SeparatorWidth is the character width of console separators/dividers.
	// Used for visual section breaks in the run summary.
	SeparatorWidth = 60
)
