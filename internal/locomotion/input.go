package locomotion

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// OnMoveInputChanged replaces the held move vector. Last write wins.
func (c *Controller) OnMoveInputChanged(v mgl64.Vec2) {
	c.moveInput = v
}

// OnMoveInputCanceled clears the held move vector.
func (c *Controller) OnMoveInputCanceled() {
	c.moveInput = mgl64.Vec2{}
}

// OnJumpPressed latches a jump request, but only while grounded. A press in
// the air is dropped, never queued.
func (c *Controller) OnJumpPressed() {
	if !c.grounded || c.jumpRequested {
		return
	}
	c.jumpRequested = true
	slog.Debug("Jump requested")
}
