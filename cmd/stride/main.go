package main

import (
	"context"
	"os"

	"github.com/Versifine/stride/internal/app"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/sim"
	"github.com/Versifine/stride/internal/viewer"
)

func main() {
	os.Exit(app.Start(os.Args[1:], map[string]app.Runner{
		config.ModeScript: app.Script,
		config.ModeConsole: func(ctx context.Context, s *sim.Session) error {
			return debug.NewConsole(s).Start(ctx)
		},
		config.ModeViewer: viewer.Run,
	}))
}
