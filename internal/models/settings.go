// internal/models/settings.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTheme = errors.New("invalid theme")
	ErrInvalidUnits = errors.New("invalid units")
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Units string

const (
	UnitsGrams  Units = "grams"
	UnitsOunces Units = "ounces"
)

type Settings struct {
	Theme Theme `json:"theme"`
	Units Units `json:"units"`
}

// SettingsUpdate is a partial change; nil fields are left untouched.
type SettingsUpdate struct {
	Theme *string `json:"theme,omitempty"`
	Units *string `json:"units,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme: ThemeSystem,
		Units: UnitsGrams,
	}
}

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q (want light, dark or system)", ErrInvalidTheme, s)
}

func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitsGrams, UnitsOunces:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q (want grams or ounces)", ErrInvalidUnits, s)
}

func (s Settings) Validate() error {
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	if _, err := ParseUnits(string(s.Units)); err != nil {
		return err
	}
	return nil
}

// Apply returns a copy of s with the update applied. s is unchanged on error.
func (s Settings) Apply(u SettingsUpdate) (Settings, error) {
	out := s
	if u.Theme != nil {
		t, err := ParseTheme(*u.Theme)
		if err != nil {
			return s, err
		}
		out.Theme = t
	}
	if u.Units != nil {
		units, err := ParseUnits(*u.Units)
		if err != nil {
			return s, err
		}
		out.Units = units
	}
	return out, nil
}
