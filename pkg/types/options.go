package types

import "fmt"

// SortKey selects the sibling ordering applied before rendering.
type SortKey int

const (
	// SortName is case-sensitive lexicographic ordering, the default
	SortName SortKey = iota
	// SortTime orders by modification time, older first, name tiebreak
	SortTime
	// SortVersion orders digit runs numerically (natural ordering)
	SortVersion
)

// ParseSortKey converts a configuration string into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "name":
		return SortName, nil
	case "time":
		return SortTime, nil
	case "version":
		return SortVersion, nil
	}
	return SortName, fmt.Errorf("unknown sort key %q", s)
}

func (k SortKey) String() string {
	switch k {
	case SortTime:
		return "time"
	case SortVersion:
		return "version"
	default:
		return "name"
	}
}

// ColorMode controls whether rendered lines carry color escapes.
type ColorMode int

const (
	// ColorAuto colors only when the sink is an interactive terminal
	ColorAuto ColorMode = iota
	// ColorAlways forces color on, even into pipes and files
	ColorAlways
	// ColorNever forces color off
	ColorNever
)

// ParseColorMode converts a configuration string into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// SizeMode controls the size decoration on rendered lines.
type SizeMode int

const (
	// SizeOff omits sizes
	SizeOff SizeMode = iota
	// SizeBytes prints the raw byte count
	SizeBytes
	// SizeHuman prints the size scaled to the largest unit >= 1
	SizeHuman
)
