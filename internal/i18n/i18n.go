// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package i18n provides the localized, human-readable messages Stokwell shows
// for results and errors. It uses the go-i18n library to load the embedded
// YAML translation files.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
)

// displayNames maps locale tags to the name shown in language pickers.
var displayNames = map[string]string{
	"en": "English",
	"af": "Afrikaans",
}

// Init loads every embedded locale file and selects lang. Unknown languages
// fall back to English.
func Init(l string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		_, _ = bundle.ParseMessageFileBytes(data, f.Name())
	}

	lang = normalize(l)
	localizer = i18n.NewLocalizer(bundle, lang, language.English.String())
}

// SetLang changes the active language.
func SetLang(l string) {
	Init(l)
}

// GetLang returns the active language tag.
func GetLang() string {
	if localizer == nil {
		Init("en")
	}
	return lang
}

// GetAvailableLocales returns the embedded locales keyed by tag with their
// display names.
func GetAvailableLocales() map[string]string {
	out := make(map[string]string)
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		tag := strings.TrimSuffix(f.Name(), ".yaml")
		name, ok := displayNames[tag]
		if !ok {
			name = tag
		}
		out[tag] = name
	}
	return out
}

// T translates messageID. Extra args are applied fmt-style to the translated
// text; a single map argument is used as template data instead. Unknown IDs
// come back unchanged.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			cfg.TemplateData = data
			args = nil
		}
	}
	msg, err := localizer.Localize(cfg)
	if err != nil {
		msg = messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func normalize(l string) string {
	tag, err := language.Parse(strings.TrimSpace(l))
	if err != nil {
		return language.English.String()
	}
	base, _ := tag.Base()
	if _, ok := displayNames[base.String()]; !ok {
		return language.English.String()
	}
	return base.String()
}
