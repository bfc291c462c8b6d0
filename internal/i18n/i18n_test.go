// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree.

package i18n

import "testing"

func TestInitAndLookup(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en) failed: %v", err)
	}
	if got := T("menu.practice"); got != "Practice" {
		t.Fatalf("T(menu.practice) = %q, want %q", got, "Practice")
	}
}

func TestGermanLookup(t *testing.T) {
	if err := Init("de"); err != nil {
		t.Fatalf("Init(de) failed: %v", err)
	}
	if got := T("menu.practice"); got != "Üben" {
		t.Fatalf("T(menu.practice) = %q, want %q", got, "Üben")
	}
	if got := GetLang(); got != "de" {
		t.Fatalf("GetLang() = %q, want de", got)
	}
}

func TestFormatArguments(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en) failed: %v", err)
	}
	got := T("lessons.generated", "Drill Stufe 1")
	want := "Lesson 'Drill Stufe 1' created"
	if got != want {
		t.Fatalf("T with args = %q, want %q", got, want)
	}
}

func TestUnknownIDReturnsID(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en) failed: %v", err)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("unknown id = %q, want the id itself", got)
	}
}

func TestSetLangSwitchesWithoutReload(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en) failed: %v", err)
	}
	SetLang("de")
	if got := T("menu.practice"); got != "Üben" {
		t.Fatalf("after SetLang(de), T(menu.practice) = %q", got)
	}
	SetLang("en")
	if got := T("menu.practice"); got != "Practice" {
		t.Fatalf("after SetLang(en), T(menu.practice) = %q", got)
	}
}

func TestAvailableLocales(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en) failed: %v", err)
	}
	locales := GetAvailableLocales()
	if locales["en"] != "English" {
		t.Fatalf("locales[en] = %q, want English", locales["en"])
	}
	if locales["de"] != "Deutsch" {
		t.Fatalf("locales[de] = %q, want Deutsch", locales["de"])
	}
}

func TestFallbackToEnglish(t *testing.T) {
	if err := Init("de"); err != nil {
		t.Fatalf("Init(de) failed: %v", err)
	}
	// Unknown language codes must still resolve through the English
	// fallback chain instead of erroring out.
	SetLang("fr")
	if got := T("menu.practice"); got != "Practice" {
		t.Fatalf("fallback lookup = %q, want English text", got)
	}
}
