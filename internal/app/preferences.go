package app

import (
	"fmt"
	"strconv"
	"strings"
)

// PreferenceDarkMode is the key under which stores persist the display preference.
const PreferenceDarkMode = "dark_mode"

// ParseDarkMode decodes a stored dark-mode value. An empty value means light mode.
func ParseDarkMode(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s = %q", ErrInvalidPreference, PreferenceDarkMode, raw)
}

// FormatDarkMode encodes the dark-mode preference in its stored form.
func FormatDarkMode(darkMode bool) string {
	return strconv.FormatBool(darkMode)
}
