package remote

import (
	"context"

	"github.com/five82/lsfremote/internal/lumasonic"
)

// Command is a remote call prepared by an intent. The local state has
// already been changed by the time a Command exists; running it only tells
// the player.
type Command struct {
	Op      string
	success string
	failure string
	call    func(ctx context.Context) error
}

// Result is the outcome of a Command, handed back to the session owner.
type Result struct {
	Op      string
	Success string
	Failure string
	Err     error
}

// Run performs the remote call. It is safe to call from any goroutine and
// does not touch session state.
func (c *Command) Run(ctx context.Context) Result {
	return Result{
		Op:      c.Op,
		Success: c.success,
		Failure: c.failure,
		Err:     c.call(ctx),
	}
}

// PollCommand fetches one snapshot.
type PollCommand struct {
	player lumasonic.Player
}

// PollResult carries a fetched snapshot or the reason there is none.
type PollResult struct {
	State lumasonic.PlayerState
	Err   error
}

// Run fetches the snapshot.
func (c *PollCommand) Run(ctx context.Context) PollResult {
	st, err := c.player.State(ctx)
	return PollResult{State: st, Err: err}
}

// ItemsCommand fetches the playlist items after a playlist appears.
type ItemsCommand struct {
	player lumasonic.Player
}

// ItemsResult carries the fetched items.
type ItemsResult struct {
	Items []string
	Err   error
}

// Run fetches the items.
func (c *ItemsCommand) Run(ctx context.Context) ItemsResult {
	items, err := c.player.PlaylistItems(ctx)
	return ItemsResult{Items: items, Err: err}
}
