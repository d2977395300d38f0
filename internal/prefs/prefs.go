// Package prefs stores the TUI settings lsfremote remembers between runs:
// the colour theme and whether the mouse drives the bars.
//
// The file lives at ~/.config/lsfremote/prefs.toml. Reading is best effort:
// a missing, unreadable or invalid file yields Defaults.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the terminal UI.
type Prefs struct {
	Theme string `toml:"theme"`
	Mouse bool   `toml:"mouse"` // drag the bars with the mouse
}

const (
	defaultPrefsPath = "~/.config/lsfremote/prefs.toml"
	defaultTheme     = "Dracula"
)

// Defaults returns the preferences used when none are saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Mouse: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads the preferences at path, or at DefaultPath when path is empty.
// Keys missing from the file keep their default.
func Load(path string) Prefs {
	p := Defaults()
	resolved, err := Resolve(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p
}

// WithKnownTheme matches Theme case-insensitively against themes and returns
// p carrying the canonical name. An unknown theme becomes the default, or the
// first of themes when the default is not among them. An empty themes list
// leaves p unchanged.
func (p Prefs) WithKnownTheme(themes []string) Prefs {
	if len(themes) == 0 {
		return p
	}
	fallback := themes[0]
	for _, name := range themes {
		if strings.EqualFold(name, p.Theme) {
			p.Theme = name
			return p
		}
		if name == defaultTheme {
			fallback = name
		}
	}
	p.Theme = fallback
	return p
}

// Save writes p to path, creating directories as needed. The file is
// replaced by rename so a crash never leaves it half written.
func Save(path string, p Prefs) error {
	resolved, err := Resolve(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// Resolve expands a leading ~ and makes path absolute. Empty means
// DefaultPath.
func Resolve(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
