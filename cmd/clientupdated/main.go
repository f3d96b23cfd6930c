// Command clientupdated is a thin bootstrap binary wiring a tick loop around
// the update engine (SPEC_FULL.md §2, in the shape of the teacher's
// server/cmd). A real deployment embeds server.Server directly and supplies
// its own world.Worlds/world.Entities/world.Shared collaborators; this
// binary exists to demonstrate that wiring against a standalone, empty
// world so the tick loop itself can be exercised without a host.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df-mc/clientupdate/server"
	"github.com/df-mc/clientupdate/server/world"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	srv := server.New(server.Config{
		Log:                log,
		SimulationDistance: 16,
		TickRate:           20,
	}, world.NopWorlds{}, world.NopEntities{}, world.SharedConfig{
		Rate: 20,
		Dims: []string{"overworld"},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("clientupdated starting", "tick_rate", 20)
	run(ctx, log, srv)
	log.Info("clientupdated stopped", "tick", srv.CurrentTick())
}

// run drives srv.Tick once per tick period until ctx is cancelled, logging
// any bytes produced for connected clients. A real host would instead
// forward those bytes to each client's network connection.
func run(ctx context.Context, log *slog.Logger, srv *server.Server) {
	const tickRate = 20
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out := srv.Tick()
			if len(out) > 0 {
				log.Debug("tick produced client output", "tick", srv.CurrentTick(), "clients", len(out))
			}
		}
	}
}
