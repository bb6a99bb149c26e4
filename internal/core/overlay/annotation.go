package overlay

import (
	"fmt"
	"strings"
)

// Severity ranks an annotation. Higher values win when annotations merge.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
)

// String returns the wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s >= SeverityInfo && s <= SeverityError
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// HigherSeverity returns the higher-priority of a and b.
func HigherSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// Annotation is one reported issue on a span of text.
type Annotation struct {
	ID       int64    `json:"id"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Category string   `json:"category,omitempty"`
	// Anchor is the text the range covered when the annotation was
	// received. It is used to relocate the range after edits.
	Anchor string `json:"anchor,omitempty"`
}

// Len returns the number of characters covered.
func (a Annotation) Len() int {
	return a.End - a.Start
}

// Contains reports whether offset falls inside the annotation range.
func (a Annotation) Contains(offset int) bool {
	return offset >= a.Start && offset < a.End
}
