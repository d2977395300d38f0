// Package playersim serves an in-memory Lumasonic File Player API.
//
// It implements every endpoint the remote uses, advances the playhead from an
// injectable clock, and can be told to misbehave (HTTP errors, success:false,
// malformed bodies, a stop that takes a few polls to land) so the remote's
// failure handling can be exercised without hardware.
package playersim

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/five82/lsfremote/internal/lumasonic"
)

// DefaultLength is the track length used when Config.Length is zero.
const DefaultLength = 180.0

// Config describes the initial player.
type Config struct {
	Items  []string // playlist items; empty means no playlist
	File   string   // file loaded when there is no playlist
	Length float64  // track length in seconds
	Now    func() time.Time
	Logger *slog.Logger // request log; nil disables it
}

// Sim is the simulated player. It is safe for concurrent use.
type Sim struct {
	mu  sync.Mutex
	now func() time.Time

	items      []string
	index      int
	file       string
	length     float64
	position   float64
	updatedAt  time.Time
	playing    bool
	looping    bool
	finished   bool
	gain       float64
	brightness float64

	status    map[string]int
	rejected  map[string]bool
	malformed map[string]bool
	stopLag   int
	lagTime   float64
	lagLeft   int

	calls []string

	router chi.Router
}

// New returns a simulator serving cfg.
func New(cfg Config) *Sim {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Length <= 0 {
		cfg.Length = DefaultLength
	}
	s := &Sim{
		now:        cfg.Now,
		items:      append([]string(nil), cfg.Items...),
		file:       cfg.File,
		length:     cfg.Length,
		gain:       1,
		brightness: 1,
		status:     map[string]int{},
		rejected:   map[string]bool{},
		malformed:  map[string]bool{},
	}
	if len(s.items) > 0 {
		s.file = s.items[0]
	}
	s.updatedAt = s.now()
	s.router = s.routes(cfg.Logger)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Sim) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Sim) routes(logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if logger != nil {
		r.Use(requestLogger(logger))
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.faults)
		r.Post("/"+lumasonic.OpPlay, s.handlePlay)
		r.Post("/"+lumasonic.OpPause, s.handlePause)
		r.Post("/"+lumasonic.OpStop, s.handleStop)
		r.Post("/"+lumasonic.OpTime, s.handleTime)
		r.Post("/"+lumasonic.OpGain, s.handleGain)
		r.Post("/"+lumasonic.OpBrightness, s.handleBrightness)
		r.Post("/"+lumasonic.OpLoop, s.handleLoop)
		r.Post("/"+lumasonic.OpState, s.handleState)
		r.Post("/"+lumasonic.OpPlaylistItems, s.handleItems)
		r.Post("/"+lumasonic.OpLoadPlaylistItem, s.handleLoadItem)
		r.Post("/"+lumasonic.OpLoadFile, s.handleLoadFile)
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

// faults records the call and applies any injected failure for its op.
func (s *Sim) faults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := strings.TrimPrefix(r.URL.Path, "/api/v1/")

		s.mu.Lock()
		s.calls = append(s.calls, op)
		code := s.status[op]
		reject := s.rejected[op]
		bad := s.malformed[op]
		s.mu.Unlock()

		switch {
		case code != 0:
			http.Error(w, http.StatusText(code), code)
		case bad:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":`))
		case reject:
			writeJSON(w, map[string]any{"success": false})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, map[string]any{"success": true})
}

func decode(r *http.Request, dest any) bool {
	return json.NewDecoder(r.Body).Decode(dest) == nil
}

func (s *Sim) handlePlay(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.advance()
	if s.file != "" {
		if s.finished {
			s.position = 0
			s.finished = false
		}
		s.playing = true
	}
	s.mu.Unlock()
	writeOK(w)
}

func (s *Sim) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.advance()
	s.playing = false
	s.mu.Unlock()
	writeOK(w)
}

func (s *Sim) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.advance()
	s.lagTime = s.position
	s.lagLeft = s.stopLag
	s.playing = false
	s.position = 0
	s.mu.Unlock()
	writeOK(w)
}

type seekBody struct {
	Unit string  `json:"unit"`
	Time float64 `json:"time"`
}

func (s *Sim) handleTime(w http.ResponseWriter, r *http.Request) {
	var body seekBody
	if !decode(r, &body) {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	target := body.Time
	switch lumasonic.SeekUnit(body.Unit) {
	case lumasonic.UnitSeconds:
	case lumasonic.UnitPercent:
		target = body.Time * s.length
	default:
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.position = math.Max(0, math.Min(target, s.length))
	s.lagLeft = 0
	s.finished = false
	writeOK(w)
}

func (s *Sim) handleGain(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Gain float64 `json:"gain"`
	}
	if !decode(r, &body) || body.Gain < 0 || body.Gain > 1 {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.mu.Lock()
	s.gain = body.Gain
	s.mu.Unlock()
	writeOK(w)
}

func (s *Sim) handleBrightness(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Brightness float64 `json:"brightness"`
	}
	if !decode(r, &body) || body.Brightness < 0 || body.Brightness > 1 {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.mu.Lock()
	s.brightness = body.Brightness
	s.mu.Unlock()
	writeOK(w)
}

func (s *Sim) handleLoop(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Loop bool `json:"loop"`
	}
	if !decode(r, &body) {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.mu.Lock()
	s.looping = body.Loop
	s.mu.Unlock()
	writeOK(w)
}

func (s *Sim) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.State())
}

func (s *Sim) handleItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := append([]string{}, s.items...)
	s.mu.Unlock()
	writeJSON(w, lumasonic.PlaylistItemsResponse{Success: true, Items: items})
}

func (s *Sim) handleLoadItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int `json:"index"`
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !decode(r, &body) || body.Index < 0 || body.Index >= len(s.items) {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.load(body.Index)
	writeOK(w)
}

func (s *Sim) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if !decode(r, &body) || body.Path == "" {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	s.mu.Lock()
	s.items = nil
	s.index = 0
	s.file = path.Base(body.Path)
	s.position = 0
	s.playing = true
	s.finished = false
	s.updatedAt = s.now()
	s.mu.Unlock()
	writeOK(w)
}

// State returns the snapshot /state would report now, consuming one lagged
// poll if a slow stop is being simulated.
func (s *Sim) State() lumasonic.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()

	gain, brightness := s.gain, s.brightness
	st := lumasonic.PlayerState{
		Success:        true,
		TimeSec:        s.position,
		LengthSec:      s.length,
		Playing:        s.playing,
		Looping:        s.looping,
		FileLoaded:     s.file != "",
		StreamFinished: s.finished,
		Gain:           &gain,
		Brightness:     &brightness,
		FileName:       s.file,
	}
	if s.length > 0 {
		st.TimePercent = s.position / s.length
	}
	if s.file == "" {
		st.LengthSec = 0
	}
	if s.lagLeft > 0 {
		st.TimeSec = s.lagTime
		s.lagLeft--
	}
	if len(s.items) > 0 {
		st.Playlist = &lumasonic.PlaylistSummary{
			Index:      s.index,
			NumItems:   len(s.items),
			IsFinished: s.finished && s.index == len(s.items)-1,
		}
	}
	return st
}

// advance moves the playhead to now. Callers hold s.mu.
func (s *Sim) advance() {
	now := s.now()
	elapsed := now.Sub(s.updatedAt).Seconds()
	s.updatedAt = now
	if !s.playing || elapsed <= 0 {
		return
	}
	s.position += elapsed
	for s.position >= s.length {
		switch {
		case s.looping:
			s.position -= s.length
		case s.index < len(s.items)-1:
			s.position -= s.length
			s.index++
			s.file = s.items[s.index]
		default:
			s.position = s.length
			s.playing = false
			s.finished = true
			return
		}
	}
}

func (s *Sim) load(index int) {
	s.index = index
	s.file = s.items[index]
	s.position = 0
	s.playing = true
	s.finished = false
	s.lagLeft = 0
	s.updatedAt = s.now()
}

// SetItems replaces the playlist. An empty list removes it.
func (s *Sim) SetItems(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]string(nil), items...)
	if len(s.items) == 0 {
		s.index = 0
		return
	}
	s.load(0)
	s.playing = false
}

// FailStatus makes op answer with an HTTP status code. Zero clears it.
func (s *Sim) FailStatus(op string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.status, op)
		return
	}
	s.status[op] = code
}

// Reject makes op answer success:false.
func (s *Sim) Reject(op string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[op] = on
}

// Malform makes op answer with a truncated JSON body.
func (s *Sim) Malform(op string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformed[op] = on
}

// LagStop makes the next stops keep reporting the old time for polls polls.
func (s *Sim) LagStop(polls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLag = polls
}

// ClearFaults removes every injected failure.
func (s *Sim) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = map[string]int{}
	s.rejected = map[string]bool{}
	s.malformed = map[string]bool{}
	s.stopLag = 0
	s.lagLeft = 0
}

// Calls returns the ops received so far, in order.
func (s *Sim) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount returns how many times op was received.
func (s *Sim) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == op {
			n++
		}
	}
	return n
}
