package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Prefs
	}{
		{name: "theme only keeps mouse default", content: "theme = \"Slate\"\n", want: Prefs{Theme: "Slate", Mouse: true}},
		{name: "mouse off", content: "theme = \"Nightfox\"\nmouse = false\n", want: Prefs{Theme: "Nightfox", Mouse: false}},
		{name: "blank theme", content: "theme = \"  \"\n", want: Defaults()},
		{name: "invalid toml", content: "not valid toml {{{\n", want: Defaults()},
		{name: "wrong type", content: "mouse = \"yes\"\n", want: Defaults()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Load(writePrefs(t, tt.content)); got != tt.want {
				t.Fatalf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := Load(""); got != Defaults() {
		t.Fatalf("Load(\"\") with no file = %+v, want defaults", got)
	}

	dir := filepath.Join(home, ".config", "lsfremote")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := Load("").Theme; got != "Slate" {
		t.Fatalf("Theme = %q, want Slate", got)
	}
}

func TestSave_RoundTripsAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	path := filepath.Join(dir, "prefs.toml")

	for _, p := range []Prefs{{Theme: "Slate", Mouse: false}, {Theme: "Nightfox", Mouse: true}} {
		if err := Save(path, p); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		if got := Load(path); got != p {
			t.Fatalf("Load after Save = %+v, want %+v", got, p)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only prefs.toml", len(entries))
	}
}

func TestWithKnownTheme(t *testing.T) {
	themes := []string{"Dracula", "Nightfox", "Slate"}
	tests := []struct {
		theme  string
		themes []string
		want   string
	}{
		{theme: "slate", themes: themes, want: "Slate"},
		{theme: "NIGHTFOX", themes: themes, want: "Nightfox"},
		{theme: "Solarized", themes: themes, want: "Dracula"},
		{theme: "Solarized", themes: []string{"Slate", "Nightfox"}, want: "Slate"},
		{theme: "Anything", themes: nil, want: "Anything"},
	}
	for _, tt := range tests {
		got := Prefs{Theme: tt.theme, Mouse: true}.WithKnownTheme(tt.themes)
		if got.Theme != tt.want || !got.Mouse {
			t.Errorf("WithKnownTheme(%q, %v) = %+v, want theme %q", tt.theme, tt.themes, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := filepath.Join(home, ".config", "lsfremote", "prefs.toml"); got != want {
		t.Fatalf("Resolve(\"\") = %q, want %q", got, want)
	}

	got, err = Resolve("~user/prefs.toml")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Dir(got) == home {
		t.Fatalf("Resolve expanded ~user as the current home: %q", got)
	}
}
