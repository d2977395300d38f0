package app

import (
	"fmt"
	"io"

	"github.com/five82/lsfremote/internal/config"
	"github.com/five82/lsfremote/internal/logtail"
)

// Logs prints the last lines of the log file, dropping records below
// minLevel. An empty minLevel keeps everything.
func Logs(opts Options, out io.Writer, lines int, minLevel string) error {
	cfg, err := Settings(opts)
	if err != nil {
		return err
	}
	records, err := logtail.Read(cfg.LogFile, lines)
	if err != nil {
		return err
	}
	if minLevel != "" {
		level, err := config.ParseLevel(minLevel)
		if err != nil {
			return err
		}
		records = logtail.Filter(records, level)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintf(out, "no log records in %s\n", cfg.LogFile)
		return err
	}
	palette := logtail.DefaultPalette()
	for _, line := range records {
		if _, err := fmt.Fprintln(out, logtail.Highlight(line, palette)); err != nil {
			return err
		}
	}
	return nil
}
