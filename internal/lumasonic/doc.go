// Package lumasonic provides an HTTP client for the Lumasonic File Player API.
//
// # Overview
//
// The player exposes a small request/response API under /api/v1. Every
// operation is a JSON POST and every response carries an application-level
// "success" flag that is independent of the HTTP status. This package hides
// the HTTP details and reports each call as one of three outcomes:
//
//   - success: the call reached the player and the player accepted it
//   - *ConnectivityError: the request failed to complete or returned non-2xx
//   - *ApplicationError: the player answered with success=false, or the body
//     could not be decoded
//
// # Client Usage
//
//	client, err := lumasonic.NewClient("localhost:8080",
//		lumasonic.WithObserver(monitor),
//	)
//	if err != nil {
//		return err
//	}
//
//	state, err := client.State(ctx)
//	switch {
//	case lumasonic.IsConnectivity(err):
//		// the monitor already saw it
//	case err != nil:
//		// success=false or malformed payload
//	}
//
// # Endpoints
//
//   - transport/play, transport/pause, transport/stop
//   - transport/time {unit, time}
//   - gain {gain}, brightness {brightness}
//   - stream/loop {loop}
//   - state (polling)
//   - playlist/items (polling)
//   - load/playlist/item {index}
//   - file/load {path}
//
// # Connectivity Observer
//
// Every invocation, whatever its call site, reports its connectivity outcome
// to the configured Observer before the body is inspected. Polling calls
// (State, PlaylistItems) are flagged so the observer can debounce its logging.
// An ApplicationError counts as connectivity success.
package lumasonic
