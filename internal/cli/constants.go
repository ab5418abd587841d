package cli

// Default values for CLI flags and output.
const (
	// MaxSearchDescriptionLength is the maximum length of a description in search results.
	MaxSearchDescriptionLength = 50
	// MaxLocationLength is the maximum length of an install location in list output.
	MaxLocationLength = 40
	// MaxRootFiles is how many top-level files the info tree shows.
	MaxRootFiles = 5
	// MaxDirFiles is how many files per directory the info tree shows.
	MaxDirFiles = 3
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)
