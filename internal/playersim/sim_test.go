package playersim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lsfremote/internal/lumasonic"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newSim(t *testing.T, cfg Config) (*Sim, *lumasonic.Client, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	cfg.Now = clk.Now
	sim := New(cfg)
	server := httptest.NewServer(sim)
	t.Cleanup(server.Close)
	client, err := lumasonic.NewClient(server.URL)
	require.NoError(t, err)
	return sim, client, clk
}

func TestSim_PlayheadAdvancesAndAdvancesPlaylist(t *testing.T) {
	_, c, clk := newSim(t, Config{Items: []string{"a.flac", "b.flac"}, Length: 10})
	ctx := context.Background()

	require.NoError(t, c.Play(ctx))
	clk.Advance(4 * time.Second)

	st, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.flac", st.FileName)
	assert.InDelta(t, 4.0, st.TimeSec, 1e-9)
	assert.True(t, st.Playing)
	require.NotNil(t, st.Playlist)
	assert.Equal(t, 2, st.Playlist.NumItems)

	clk.Advance(8 * time.Second)
	st, err = c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.flac", st.FileName)
	assert.InDelta(t, 2.0, st.TimeSec, 1e-9)

	clk.Advance(20 * time.Second)
	st, err = c.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Playing)
	assert.True(t, st.Playlist.IsFinished)
}

func TestSim_ControlsRoundTrip(t *testing.T) {
	sim, c, _ := newSim(t, Config{File: "x.wav", Length: 100})
	ctx := context.Background()

	require.NoError(t, c.SetGain(ctx, 0.25))
	require.NoError(t, c.SetBrightness(ctx, 0.5))
	require.NoError(t, c.SetLoop(ctx, true))
	require.NoError(t, c.Seek(ctx, lumasonic.UnitPercent, 0.5))

	st := sim.State()
	assert.Equal(t, 0.25, st.GainOrDefault())
	assert.Equal(t, 0.5, st.BrightnessOrDefault())
	assert.True(t, st.Looping)
	assert.Equal(t, 50.0, st.TimeSec)
	assert.Nil(t, st.Playlist)

	require.Error(t, c.SetGain(ctx, 2))
	require.Error(t, c.LoadPlaylistItem(ctx, 0), "no playlist loaded")

	require.NoError(t, c.LoadFile(ctx, "/media/y.wav"))
	assert.Equal(t, "y.wav", sim.State().FileName)
}

func TestSim_FaultInjection(t *testing.T) {
	sim, c, _ := newSim(t, Config{File: "x.wav"})
	ctx := context.Background()

	sim.FailStatus(lumasonic.OpPlay, http.StatusServiceUnavailable)
	assert.True(t, lumasonic.IsConnectivity(c.Play(ctx)))

	sim.Reject(lumasonic.OpPause, true)
	assert.True(t, lumasonic.IsApplication(c.Pause(ctx)))

	sim.Malform(lumasonic.OpState, true)
	_, err := c.State(ctx)
	assert.True(t, lumasonic.IsApplication(err))

	sim.ClearFaults()
	assert.NoError(t, c.Play(ctx))
	assert.Equal(t, 2, sim.CallCount(lumasonic.OpPlay))
}

func TestSim_LaggingStop(t *testing.T) {
	sim, c, clk := newSim(t, Config{File: "x.wav", Length: 60})
	ctx := context.Background()

	require.NoError(t, c.Play(ctx))
	clk.Advance(30 * time.Second)
	sim.LagStop(2)
	require.NoError(t, c.Stop(ctx))

	for i := 0; i < 2; i++ {
		st, err := c.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, 30.0, st.TimeSec)
	}
	st, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.TimeSec)
}
