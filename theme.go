package brief

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means no color.
type Theme struct {
	Query   int // The question being answered
	Accent  int // Headings, code spans
	Muted   int // Status line, gutters, link targets
	Error   int // Failure explanation
	Success int // Completed status
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Query:   4,
		Accent:  5,
		Muted:   8,
		Error:   1,
		Success: 2,
	}
}
