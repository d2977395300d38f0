package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file reads as empty.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if count < maxLines {
		return ring[:count], nil
	}
	return append(ring[next:], ring[:next]...), nil
}

// field is one key=value pair of a text record. value keeps its quotes.
type field struct {
	key   string
	value string
}

// parse splits a slog text record into fields. ok is false when the line is
// not a record (a panic trace, a line from another writer).
func parse(line string) (fields []field, ok bool) {
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			value, rest = rest[:end+1], rest[end+1:]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp:]
		} else {
			value, rest = rest, ""
		}
		fields = append(fields, field{key: key, value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return fields, len(fields) > 0
}

// closingQuote returns the index of the quote ending the string that opens
// at s[0].
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// Level reports the level of a text record.
func Level(line string) (slog.Level, bool) {
	fields, ok := parse(line)
	if !ok {
		return 0, false
	}
	for _, f := range fields {
		if f.key != slog.LevelKey {
			continue
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(f.value)); err != nil {
			return 0, false
		}
		return lvl, true
	}
	return 0, false
}

// Filter keeps records at or above min. Lines that are not records are kept
// so multi-line output is not torn apart.
func Filter(lines []string, min slog.Level) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if lvl, ok := Level(line); ok && lvl < min {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Palette styles the parts of a record.
type Palette struct {
	Time  lipgloss.Style
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Msg   lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
}

// DefaultPalette is tuned for dark terminals.
func DefaultPalette() Palette {
	return Palette{
		Time:  lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Msg:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")),
		Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AFFF")),
	}
}

func (p Palette) level(value string) lipgloss.Style {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(value)); err != nil {
		return p.Msg
	}
	switch {
	case lvl >= slog.LevelError:
		return p.Error
	case lvl >= slog.LevelWarn:
		return p.Warn
	case lvl >= slog.LevelInfo:
		return p.Info
	default:
		return p.Debug
	}
}

// Highlight renders a text record as "time LEVEL msg key=value ...".
// Anything that does not parse is returned unchanged.
func Highlight(line string, p Palette) string {
	fields, ok := parse(line)
	if !ok {
		return line
	}
	parts := make([]string, 0, len(fields))
	var attrs []string
	for _, f := range fields {
		switch f.key {
		case slog.TimeKey:
			parts = append(parts, p.Time.Render(f.value))
		case slog.LevelKey:
			parts = append(parts, p.level(f.value).Render(fmt.Sprintf("%-5s", f.value)))
		case slog.MessageKey:
			parts = append(parts, p.Msg.Render(unquote(f.value)))
		default:
			attrs = append(attrs, p.Key.Render(f.key+"=")+p.Value.Render(f.value))
		}
	}
	return strings.Join(append(parts, attrs...), " ")
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return strings.ReplaceAll(v[1:len(v)-1], `\"`, `"`)
	}
	return v
}
