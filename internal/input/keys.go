package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Directions is the held state of four directional buttons.
type Directions struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Vector folds the buttons into a move vector; diagonals are normalized.
func (d Directions) Vector() mgl64.Vec2 {
	var x, y float64
	if d.Right {
		x++
	}
	if d.Left {
		x--
	}
	if d.Up {
		y++
	}
	if d.Down {
		y--
	}
	if x != 0 && y != 0 {
		x /= math.Sqrt2
		y /= math.Sqrt2
	}
	return mgl64.Vec2{x, y}
}

// Composite turns polled device state into performed/canceled move events,
// emitting only when the vector changes.
type Composite struct {
	target *Map
	last   mgl64.Vec2
	primed bool
}

func NewComposite(target *Map) *Composite {
	return &Composite{target: target}
}

func (c *Composite) Update(v mgl64.Vec2) {
	if v == c.last && !c.primed {
		return
	}
	c.last = v
	c.primed = false
	if v == (mgl64.Vec2{}) {
		c.target.CancelMove()
		return
	}
	c.target.Move(v)
}

func (c *Composite) UpdateDirections(d Directions) {
	c.Update(d.Vector())
}

// Reset forgets the last vector so the next Update always dispatches, even
// a zero vector.
func (c *Composite) Reset() {
	c.last = mgl64.Vec2{}
	c.primed = true
}
