package lumasonic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operation names, relative to the API prefix.
const (
	OpPlay             = "transport/play"
	OpPause            = "transport/pause"
	OpStop             = "transport/stop"
	OpTime             = "transport/time"
	OpGain             = "gain"
	OpBrightness       = "brightness"
	OpLoop             = "stream/loop"
	OpState            = "state"
	OpPlaylistItems    = "playlist/items"
	OpLoadPlaylistItem = "load/playlist/item"
	OpLoadFile         = "file/load"
)

// envelope is the part of every response the client checks.
type envelope struct {
	Success bool `json:"success"`
}

// PlayerState mirrors the payload returned by /state. It is a point-in-time
// snapshot and is not retained beyond one reconciliation.
type PlayerState struct {
	Success        bool             `json:"success"`
	TimeSec        float64          `json:"timeSec"`
	TimePercent    float64          `json:"timePercent"`
	LengthSec      float64          `json:"lengthSec"`
	Playing        bool             `json:"playing"`
	Looping        bool             `json:"looping"`
	FileLoaded     bool             `json:"fileLoaded"`
	StreamFinished bool             `json:"streamFinished"`
	Gain           *float64         `json:"gain,omitempty"`
	Brightness     *float64         `json:"brightness,omitempty"`
	FileName       string           `json:"fileName"`
	Playlist       *PlaylistSummary `json:"playlist,omitempty"`
}

// PlaylistSummary is the optional playlist descriptor embedded in /state.
type PlaylistSummary struct {
	Index      int  `json:"index"`
	NumItems   int  `json:"numItems"`
	IsFinished bool `json:"isFinished"`
}

// GainOrDefault returns the reported gain, or full gain when absent.
func (s PlayerState) GainOrDefault() float64 {
	if s.Gain == nil {
		return 1.0
	}
	return *s.Gain
}

// BrightnessOrDefault returns the reported brightness, or full brightness when absent.
func (s PlayerState) BrightnessOrDefault() float64 {
	if s.Brightness == nil {
		return 1.0
	}
	return *s.Brightness
}

// HasPlaylist reports whether the snapshot carries a playlist descriptor.
func (s PlayerState) HasPlaylist() bool {
	return s.Playlist != nil
}

// PlaylistItemsResponse mirrors /playlist/items.
type PlaylistItemsResponse struct {
	Success bool     `json:"success"`
	Items   []string `json:"items"`
}

// SeekUnit selects how transport/time interprets its value.
type SeekUnit string

const (
	UnitSeconds SeekUnit = "sec"
	UnitPercent SeekUnit = "%"
)

// ParseSeek parses "90", "90s" or "25%" into a unit and value. Percent values
// are returned normalized to 0..1.
func ParseSeek(value string) (SeekUnit, float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", 0, fmt.Errorf("seek value is empty")
	}
	unit := UnitSeconds
	switch {
	case strings.HasSuffix(trimmed, "%"):
		unit = UnitPercent
		trimmed = strings.TrimSuffix(trimmed, "%")
	case strings.HasSuffix(trimmed, "s"):
		trimmed = strings.TrimSuffix(trimmed, "s")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse seek %q: %w", value, err)
	}
	if n < 0 {
		return "", 0, fmt.Errorf("seek %q is negative", value)
	}
	if unit == UnitPercent {
		if n > 100 {
			return "", 0, fmt.Errorf("seek %q exceeds 100%%", value)
		}
		n /= 100
	}
	return unit, n, nil
}

type seekRequest struct {
	Unit SeekUnit `json:"unit"`
	Time float64  `json:"time"`
}

type gainRequest struct {
	Gain float64 `json:"gain"`
}

type brightnessRequest struct {
	Brightness float64 `json:"brightness"`
}

type loopRequest struct {
	Loop bool `json:"loop"`
}

type loadItemRequest struct {
	Index int `json:"index"`
}

type loadFileRequest struct {
	Path string `json:"path"`
}

// decodeEnvelope checks the success flag of a raw body and, when dest is
// non-nil, decodes the full payload into it.
func decodeEnvelope(op string, body []byte, dest any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &ApplicationError{Op: op, Malformed: true, Err: err}
	}
	if !env.Success {
		return &ApplicationError{Op: op}
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &ApplicationError{Op: op, Malformed: true, Err: err}
	}
	return nil
}
