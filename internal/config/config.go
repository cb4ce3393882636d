package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Theme        string // chroma style name
	TabWidth     int    // '\t' -> TabWidth cells when drawing
	UndoCoalesce bool   // merge typing bursts into one undo step
	HistoryLimit int    // undo entries kept, 0 is unbounded
	LineNumbers  bool
	WatchFile    bool // report changes made to the file by other programs
}

var DefaultConfig = Config{
	Theme:        "kobi",
	TabWidth:     4,
	UndoCoalesce: true,
	HistoryLimit: 1000,
	LineNumbers:  true,
	WatchFile:    true,
}

// GetConfig returns the defaults overridden by KOBI_* environment variables.
// Malformed values are ignored.
func GetConfig() Config {
	return FromEnv(os.LookupEnv)
}

func FromEnv(lookup func(string) (string, bool)) Config {
	config := DefaultConfig

	if theme, ok := lookup("KOBI_THEME"); ok && theme != "" { config.Theme = theme }

	if value, ok := lookup("KOBI_TABWIDTH"); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 && n <= 16 { config.TabWidth = n }
	}
	if value, ok := lookup("KOBI_HISTORY_LIMIT"); ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 { config.HistoryLimit = n }
	}

	config.UndoCoalesce = boolEnv(lookup, "KOBI_UNDO_COALESCE", config.UndoCoalesce)
	config.LineNumbers = boolEnv(lookup, "KOBI_LINE_NUMBERS", config.LineNumbers)
	config.WatchFile = boolEnv(lookup, "KOBI_WATCH", config.WatchFile)

	return config
}

func boolEnv(lookup func(string) (string, bool), name string, fallback bool) bool {
	value, ok := lookup(name)
	if !ok { return fallback }
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
