// Package analysis defines the analysis request modes and result artifacts.
package analysis

// Mode is the requested analysis depth.
type Mode string

// Analysis mode constants.
const (
	Summary    Mode = "summary"
	KeyPoints  Mode = "key_points"
	Statistics Mode = "statistics"
	// FormatClean strips blank lines and edge whitespace instead of
	// analyzing the content.
	FormatClean Mode = "format_clean"
	// Comprehensive is the union of the analytical modes' artifacts.
	Comprehensive Mode = "comprehensive"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Summary || m == KeyPoints || m == Statistics || m == FormatClean || m == Comprehensive
}

// All returns every supported mode.
func All() []Mode {
	return []Mode{Summary, KeyPoints, Statistics, FormatClean, Comprehensive}
}
