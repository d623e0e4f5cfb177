package debug

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var errUsage = errors.New("usage")

type command struct {
	name  string
	args  string
	about string
	run   func(args []string) error
}

func (c *Console) registerCommands() {
	c.commands = []command{
		{name: "help", about: "list keys and commands", run: func([]string) error {
			c.printHelp()
			return nil
		}},
		{name: "state", about: "print body and controller state", run: func([]string) error {
			c.session.Loop.Post(c.printState)
			return nil
		}},
		{name: "tp", args: "<x> <y> <z>", about: "move the body and stop it", run: c.teleport},
	}
}

func (c *Console) teleport(args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	target, err := parseVec3(args)
	if err != nil {
		return errors.New("invalid tp args")
	}
	c.session.Loop.Post(func() { c.session.Teleport(target) })
	c.printf("[debug] teleport to (%.3f, %.3f, %.3f)\r\n", target.X(), target.Y(), target.Z())
	return nil
}

func (c *Console) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	for _, cmd := range c.commands {
		if cmd.name != fields[0] {
			continue
		}
		err := cmd.run(fields[1:])
		switch {
		case errors.Is(err, errUsage):
			c.printf("[debug] usage: :%s %s\r\n", cmd.name, cmd.args)
		case err != nil:
			c.printf("[debug] %v\r\n", err)
		}
		return
	}
	c.printf("[debug] unknown command: %s\r\n", fields[0])
}

func (c *Console) printHelp() {
	c.printf("[debug] keys: W/S/A/D pulse movement (%s), Space jump, X clear, : command, Ctrl-C quit\r\n", c.movePulse)
	c.printf("[debug] commands:\r\n")
	for _, cmd := range c.commands {
		c.printf("  :%s %s\t%s\r\n", cmd.name, cmd.args, cmd.about)
	}
}

func parseVec3(args []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = f
	}
	return v, nil
}

// lineEditor collects one command line from raw keystrokes.
type lineEditor struct {
	active bool
	buf    []rune
}

func (e *lineEditor) open() {
	e.active = true
	e.buf = e.buf[:0]
}

// feed consumes one byte. It returns what to echo and, once Enter closes
// the line, the trimmed line with submitted set.
func (e *lineEditor) feed(b byte) (echo, line string, submitted bool) {
	switch b {
	case keyEnter, keyNewline:
		line = strings.TrimSpace(string(e.buf))
		e.active = false
		return "\r\n", line, true
	case keyEscape:
		e.active = false
		return "\r\n[debug] command cancelled\r\n", "", false
	case keyBackspace, keyDelete:
		if n := len(e.buf); n > 0 {
			e.buf = e.buf[:n-1]
		}
		return fmt.Sprintf("\r:%s \r:%s", string(e.buf), string(e.buf)), "", false
	}
	if b < 32 || b > 126 {
		return "", "", false
	}
	e.buf = append(e.buf, rune(b))
	return "\r:" + string(e.buf), "", false
}
