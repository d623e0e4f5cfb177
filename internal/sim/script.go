package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/host"
)

// Report summarises a scripted run.
type Report struct {
	SimTime       float64
	Frames        uint64
	Steps         uint64
	EventsFired   int
	Jumps         uint64
	AirborneSteps uint64
	SlideSteps    uint64
	// MaxHeight is the highest feet elevation reached.
	MaxHeight float64
	// Distance is the planar path length travelled.
	Distance float64
	Final    Snapshot
}

// RunScript plays script against the session headlessly. Frame times are
// drawn around the configured frame rate with seeded jitter, so two runs of
// the same session config produce the same report.
func RunScript(ctx context.Context, s *Session, script config.ScriptConfig) (Report, error) {
	events := append([]config.ScriptEvent(nil), script.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	lc := s.Config.Loop
	base := 1 / float64(lc.FrameRate)
	rng := rand.New(rand.NewPCG(uint64(lc.Seed), uint64(lc.Seed)^0x9e3779b97f4a7c15))

	start := s.Loop.Stats()
	startJumps := s.Controller.State().Jumps
	s.resetStats()

	var (
		t         float64
		fired     int
		nextTrace float64
	)
	slog.Info("Script started", "duration", script.Duration, "events", len(events), "frame_rate", lc.FrameRate)

	for t < script.Duration {
		if err := ctx.Err(); err != nil {
			return s.report(start, startJumps, t, fired), err
		}

		for fired < len(events) && events[fired].At <= t {
			s.apply(events[fired])
			fired++
		}

		dt := base * (1 + lc.FrameJitter*(2*rng.Float64()-1))
		s.Loop.Advance(dt)
		t += dt

		if script.TraceInterval > 0 && t >= nextTrace {
			snap := s.Snapshot()
			slog.Info("Trace",
				"t", t,
				"pos", snap.Position,
				"speed", snap.Speed,
				"grounded", snap.Controller.Grounded,
				"anim", snap.Anim,
			)
			nextTrace = t + script.TraceInterval
		}
	}

	r := s.report(start, startJumps, t, fired)
	slog.Info("Script finished",
		"steps", r.Steps,
		"jumps", r.Jumps,
		"distance", r.Distance,
		"max_height", r.MaxHeight,
	)
	return r, nil
}

func (s *Session) apply(e config.ScriptEvent) {
	switch e.Action {
	case config.EventMove:
		s.Input.Move(mgl64.Vec2{e.X, e.Y})
	case config.EventRelease:
		s.Input.CancelMove()
	case config.EventJump:
		s.Input.Jump()
	}
	slog.Debug("Script event", "at", e.At, "action", e.Action)
}

func (s *Session) report(start host.Stats, startJumps uint64, t float64, fired int) Report {
	end := s.Loop.Stats()
	return Report{
		SimTime:       t,
		Frames:        end.Frames - start.Frames,
		Steps:         end.Steps - start.Steps,
		EventsFired:   fired,
		Jumps:         s.Controller.State().Jumps - startJumps,
		AirborneSteps: s.stats.airborneSteps,
		SlideSteps:    s.stats.slideSteps,
		MaxHeight:     s.stats.maxFeetY,
		Distance:      s.stats.distance,
		Final:         s.Snapshot(),
	}
}
