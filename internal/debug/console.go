package debug

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/sim"
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	defaultMovePulse     = 180 * time.Millisecond
	statusInterval       = 100 * time.Millisecond

	keyCtrlC     = 3
	keyBackspace = 8
	keyNewline   = 10
	keyEnter     = 13
	keyEscape    = 27
	keyDelete    = 127
)

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
	dirCount
)

var opposite = [dirCount]direction{dirDown, dirUp, dirRight, dirLeft}

var keyDirections = map[byte]direction{
	'w': dirUp, 'W': dirUp,
	's': dirDown, 'S': dirDown,
	'a': dirLeft, 'A': dirLeft,
	'd': dirRight, 'D': dirRight,
}

var (
	ErrNilSession  = errors.New("console session is nil")
	ErrNotTerminal = errors.New("stdin is not a terminal")
)

// Console drives a session from a raw-mode terminal. Key handling runs on
// the reading goroutine; everything touching the session is posted to the
// loop goroutine.
type Console struct {
	session       *sim.Session
	out           io.Writer
	now           func() time.Time
	frameInterval time.Duration
	movePulse     time.Duration
	commands      []command

	mu          sync.Mutex
	pulses      [dirCount]time.Time
	editor      lineEditor
	held        input.Directions
	statusWidth int

	outMu  sync.Mutex
	status rate.Sometimes
}

func NewConsole(session *sim.Session) *Console {
	c := &Console{
		session:       session,
		out:           os.Stdout,
		now:           time.Now,
		frameInterval: defaultFrameInterval,
		movePulse:     defaultMovePulse,
		status:        rate.Sometimes{Interval: statusInterval},
	}
	c.registerCommands()
	if session != nil {
		session.Loop.OnPump(c.pump)
		session.Loop.OnFrame(func(float64) {
			c.status.Do(c.renderStatusLine)
		})
	}
	return c
}

// Start puts the terminal in raw mode, runs the session loop and reads keys
// until ctx is done or Ctrl-C is pressed.
func (c *Console) Start(ctx context.Context) error {
	if c == nil || c.session == nil {
		return ErrNilSession
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, saved); err != nil {
			slog.Warn("Failed to restore terminal", "error", err)
		}
		fmt.Fprint(c.out, "\r\n")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.printf("[debug] stride console, :help for keys\r\n")
	go func() {
		if err := c.session.Loop.Run(ctx, c.frameInterval); err != nil {
			slog.Error("Console loop stopped", "error", err)
		}
	}()

	keys := bufio.NewReader(os.Stdin)
	for ctx.Err() == nil {
		b, err := keys.ReadByte()
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("read key: %w", err)
		case b == keyCtrlC:
			return nil
		}
		c.handleKey(b)
	}
	return nil
}

func (c *Console) handleKey(b byte) {
	c.mu.Lock()
	if c.editor.active {
		echo, line, submitted := c.editor.feed(b)
		c.mu.Unlock()
		c.printf("%s", echo)
		if submitted {
			c.execute(line)
		}
		return
	}
	if d, ok := keyDirections[b]; ok {
		c.pulses[d] = c.now().Add(c.movePulse)
		c.pulses[opposite[d]] = time.Time{}
		c.mu.Unlock()
		return
	}
	if b == ':' {
		c.editor.open()
	}
	c.mu.Unlock()

	switch b {
	case ':':
		c.printf("\r\n:")
	case ' ':
		c.session.Loop.Post(c.session.Input.Jump)
	case 'x', 'X':
		c.mu.Lock()
		c.pulses = [dirCount]time.Time{}
		c.mu.Unlock()
		slog.Debug("Console input cleared")
	}
}

// pump runs on the loop goroutine and turns live pulses into a move vector.
func (c *Console) pump() {
	c.mu.Lock()
	now := c.now()
	live := func(d direction) bool { return now.Before(c.pulses[d]) }
	c.held = input.Directions{
		Up:    live(dirUp),
		Down:  live(dirDown),
		Left:  live(dirLeft),
		Right: live(dirRight),
	}
	held := c.held
	c.mu.Unlock()

	c.session.Keys.UpdateDirections(held)
}

func (c *Console) printState() {
	snap := c.session.Snapshot()
	st := snap.Controller
	c.printf("[debug] pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) facing=(%.2f,%.2f)\r\n",
		snap.Position.X(), snap.Position.Y(), snap.Position.Z(),
		snap.Velocity.X(), snap.Velocity.Y(), snap.Velocity.Z(),
		snap.Facing.X(), snap.Facing.Z(),
	)
	c.printf("[debug] grounded=%t jump_pending=%t sliding=%t jumps=%d anim=%s speed=%.2f\r\n",
		st.Grounded, st.JumpRequested, st.Sliding, st.Jumps, snap.Anim, snap.Speed,
	)
}

// renderStatusLine redraws the bottom line in place, padded to cover the
// widest line drawn so far.
func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.editor.active {
		c.mu.Unlock()
		return
	}
	held := c.held
	c.mu.Unlock()

	snap := c.session.Snapshot()
	line := fmt.Sprintf("[%s | X:%.2f Y:%.2f Z:%.2f | speed:%.2f %s ground:%t]",
		heldLabel(held),
		snap.Position.X(), snap.Position.Y(), snap.Position.Z(),
		snap.Speed, snap.Anim, snap.Controller.Grounded,
	)

	c.mu.Lock()
	c.statusWidth = max(c.statusWidth, len(line))
	width := c.statusWidth
	c.mu.Unlock()

	c.printf("\r%-*s", width, line)
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.active
}

func heldLabel(d input.Directions) string {
	label := []byte("----")
	for i, on := range []bool{d.Up, d.Left, d.Down, d.Right} {
		if on {
			label[i] = "WASD"[i]
		}
	}
	return string(label)
}
