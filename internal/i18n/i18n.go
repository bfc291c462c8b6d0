// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

// Package i18n wraps go-i18n with the embedded locale catalog used by
// the TUI and CLI. Messages are plain fmt templates; T localizes by id
// and expands any trailing arguments.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	current   string
)

// Init loads every embedded locale file and selects lang as the active
// language. English remains the fallback for ids missing from lang.
func Init(lang string) error {
	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return fmt.Errorf("reading embedded locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+f.Name()); err != nil {
			return fmt.Errorf("loading locale %s: %w", f.Name(), err)
		}
	}

	SetLang(lang)
	return nil
}

// SetLang switches the active language without reloading the bundle.
// Unknown codes fall back to English via the localizer chain.
func SetLang(lang string) {
	if lang == "" {
		lang = "en"
	}
	current = lang
	localizer = goi18n.NewLocalizer(bundle, lang, "en")
}

// GetLang returns the currently active language code.
func GetLang() string {
	return current
}

// T returns the localized message for id. Extra arguments are expanded
// with fmt.Sprintf against the message template. Unknown ids come back
// verbatim so a missing translation never blanks a screen.
func T(id string, args ...interface{}) string {
	if localizer == nil {
		if err := Init("en"); err != nil {
			return id
		}
	}
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetAvailableLocales maps each embedded locale code to its display
// name, taken from the locale's own language.display_name message.
func GetAvailableLocales() map[string]string {
	if bundle == nil {
		if err := Init("en"); err != nil {
			return map[string]string{}
		}
	}
	out := make(map[string]string)
	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return out
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		loc := goi18n.NewLocalizer(bundle, code)
		name, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: "language.display_name"})
		if err != nil || name == "" {
			name = code
		}
		out[code] = name
	}
	return out
}
