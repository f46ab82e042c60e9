package service

import (
	"github.com/Scalingo/projects-widget/model"
	"github.com/Scalingo/projects-widget/store"
	"github.com/Scalingo/projects-widget/view"
	log "github.com/sirupsen/logrus"
)

// ColorSchemeSignal reports whether the platform asks for a dark color scheme
type ColorSchemeSignal func() bool

// ThemeStore keeps the theme applied on the document and the persisted
// preference equal after every change
type ThemeStore struct {
	doc         *view.Document
	preferences store.PreferenceStore
	prefersDark ColorSchemeSignal
}

func NewThemeStore(doc *view.Document, preferences store.PreferenceStore, prefersDark ColorSchemeSignal) *ThemeStore {
	if prefersDark == nil {
		prefersDark = func() bool { return false }
	}

	return &ThemeStore{
		doc:         doc,
		preferences: preferences,
		prefersDark: prefersDark,
	}
}

// Get returns the theme currently applied to the document
func (s *ThemeStore) Get() model.ThemePreference {
	return s.doc.Theme()
}

// Apply sets the theme on the document, persists it and relabels the toggle
// with the action it performs next. Persistence is best-effort.
func (s *ThemeStore) Apply(pref model.ThemePreference) {
	s.doc.SetTheme(pref)

	if err := s.preferences.Set(model.ThemePreferenceKey, string(pref)); err != nil {
		log.WithError(err).WithField("theme", pref).Warning("unable to persist theme preference")
	}

	s.doc.SetToggleLabel(pref.ToggleLabel())
}

// Init resolves the theme from the persisted value, then the platform signal,
// then light, and applies it
func (s *ThemeStore) Init() model.ThemePreference {
	pref := s.resolve()
	s.Apply(pref)

	return pref
}

// Toggle flips the theme read from the document
func (s *ThemeStore) Toggle() model.ThemePreference {
	pref := s.Get().Opposite()
	s.Apply(pref)

	return pref
}

func (s *ThemeStore) resolve() model.ThemePreference {
	value, found, err := s.preferences.Get(model.ThemePreferenceKey)
	if err != nil {
		log.WithError(err).Warning("unable to read persisted theme preference")
	}

	if found {
		pref, err := model.ParseThemePreference(value)
		if err == nil {
			return pref
		}

		log.WithField("value", value).Debug("ignoring unknown persisted theme preference")
	}

	if s.prefersDark() {
		return model.ThemeDark
	}

	return model.ThemeLight
}
