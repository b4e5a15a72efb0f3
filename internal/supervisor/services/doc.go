// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for reelmatch components.

Each wrapper implements the suture v4 Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its events.

# Available Services

Reload (ReloadService):
  - Rebuilds the engine snapshot on startup, on a fixed interval and on Trigger
  - A failed rebuild is logged; the previous snapshot keeps serving
  - Only returns when its context ends

HTTP Server (HTTPServerService):
  - Runs the operational router (metrics, health, status)
  - Graceful Shutdown on context cancellation
  - Listener failures are returned so the supervisor restarts the server

# Example

	reload := services.NewReloadService(engine, services.ReloadServiceConfig{
	    OnStartup: true,
	    Interval:  time.Hour,
	}, logger)
	tree.AddDataService(reload)
*/
package services
