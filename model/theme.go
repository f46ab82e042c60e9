package model

import "fmt"

type ThemePreference string

const (
	ThemeLight ThemePreference = "light"
	ThemeDark  ThemePreference = "dark"

	// ThemePreferenceKey is the key the preference is persisted under
	ThemePreferenceKey = "theme"
)

func (p ThemePreference) Opposite() ThemePreference {
	if p == ThemeDark {
		return ThemeLight
	}

	return ThemeDark
}

// ToggleLabel names the action the toggle control performs next
func (p ThemePreference) ToggleLabel() string {
	return "Switch to " + string(p.Opposite()) + " mode"
}

func ParseThemePreference(value string) (ThemePreference, error) {
	switch ThemePreference(value) {
	case ThemeLight, ThemeDark:
		return ThemePreference(value), nil
	default:
		return "", fmt.Errorf("unknown theme preference %q", value)
	}
}
