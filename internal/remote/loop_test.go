package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lsfremote/internal/connection"
	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/playersim"
	"github.com/five82/lsfremote/internal/state"
)

func startLoop(t *testing.T, sim *playersim.Sim) (*Loop, *state.Store, *connection.Monitor, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	server := httptest.NewServer(sim)
	t.Cleanup(server.Close)

	store := state.NewStore()
	monitor := connection.New(connection.Options{Logger: quiet()})
	monitor.OnChange(store.SetConnected)

	client, err := lumasonic.NewClient(server.URL, lumasonic.WithObserver(monitor))
	require.NoError(t, err)

	session := NewSession(client, notify.Discard, quiet())
	loop := NewLoop(session, store, 20*time.Millisecond, quiet())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop, store, monitor, cancel, done
}

func TestLoop_PollsAndNavigates(t *testing.T) {
	sim := playersim.New(playersim.Config{Items: []string{"a.flac", "b.flac", "c.flac"}, Length: 300})
	loop, store, _, _, _ := startLoop(t, sim)

	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.HasState && len(snap.Playlist.Items) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "a.flac", store.Snapshot().Player.CurrentFile)

	ctx := context.Background()
	require.NoError(t, loop.Submit(ctx, (*Session).Next))

	require.Eventually(t, func() bool {
		return sim.State().FileName == "b.flac"
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return store.Snapshot().Player.CurrentFile == "b.flac"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, loop.Submit(ctx, func(s *Session) *Command { return s.SetVolume(0.3) }))
	require.Eventually(t, func() bool {
		return sim.State().GainOrDefault() == 0.3 && store.Snapshot().Player.Volume == 0.3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, sim.CallCount(lumasonic.OpPlaylistItems))
}

func TestLoop_RecordsOutagesAndRecovers(t *testing.T) {
	sim := playersim.New(playersim.Config{File: "x.wav"})
	_, store, monitor, _, _ := startLoop(t, sim)

	require.Eventually(t, func() bool { return store.Snapshot().HasState }, 2*time.Second, 10*time.Millisecond)

	sim.FailStatus(lumasonic.OpState, http.StatusBadGateway)
	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.IsOffline() && !snap.Connected
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, monitor.Connected())
	assert.Equal(t, "x.wav", store.Snapshot().Player.CurrentFile, "last good state is kept")

	sim.ClearFaults()
	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		return snap.Connected && snap.ConsecutiveFailures == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLoop_SubmitAfterStop(t *testing.T) {
	sim := playersim.New(playersim.Config{File: "x.wav"})
	loop, _, _, cancel, done := startLoop(t, sim)

	cancel()
	require.Eventually(t, func() bool {
		return errors.Is(loop.Submit(context.Background(), (*Session).Play), ErrStopped)
	}, 2*time.Second, 10*time.Millisecond)
	<-done
}
