package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is the value of the global --format flag
type Format int

const (
	// FormatAuto styles output only when stdout is a color terminal
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	// FormatJSON is honoured by list and update
	FormatJSON
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
}

// formatAliases holds accepted spellings beyond the canonical names
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat reads a --format value, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// DetectFormat resolves FormatAuto for output: NO_COLOR, a redirect or an
// ASCII-only terminal all mean plain text
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(output) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled combines the config "color" key with DetectFormat. A false
// config value wins over any terminal.
func ColorEnabled(output *os.File, configColor bool) bool {
	return configColor && DetectFormat(output) == FormatTerminal
}
