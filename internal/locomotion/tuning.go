package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/Versifine/stride/internal/physics"
)

// Tuning holds the per-character constants. It is copied into the
// controller at construction and never changes afterwards.
type Tuning struct {
	MoveSpeed        float64
	RotationSpeed    float64
	AccelerationTime float64
	DecelerationTime float64

	JumpHeight float64

	GroundCheckRadius float64
	GroundLayers      physics.LayerMask

	// SlideThreshold is compared against the cosine of the slope angle;
	// surfaces with a smaller cosine are steep enough to slide on.
	SlideThreshold float64
	SlideForce     float64
	MaxSlideSpeed  float64
}

func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:         5,
		RotationSpeed:     12,
		AccelerationTime:  0.2,
		DecelerationTime:  0.3,
		JumpHeight:        1,
		GroundCheckRadius: 0.5,
		GroundLayers:      physics.LayerGround.Mask(),
		SlideThreshold:    0.6,
		SlideForce:        5,
		MaxSlideSpeed:     10,
	}
}

// Validate reports every out-of-range field at once.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}

	check(finite(t.MoveSpeed) && t.MoveSpeed >= 0, "move speed %v must be >= 0", t.MoveSpeed)
	check(finite(t.RotationSpeed) && t.RotationSpeed >= 0, "rotation speed %v must be >= 0", t.RotationSpeed)
	check(finite(t.AccelerationTime) && t.AccelerationTime >= 0, "acceleration time %v must be >= 0", t.AccelerationTime)
	check(finite(t.DecelerationTime) && t.DecelerationTime >= 0, "deceleration time %v must be >= 0", t.DecelerationTime)
	check(finite(t.JumpHeight) && t.JumpHeight >= 0, "jump height %v must be >= 0", t.JumpHeight)
	check(finite(t.GroundCheckRadius) && t.GroundCheckRadius > 0, "ground check radius %v must be > 0", t.GroundCheckRadius)
	check(t.GroundLayers != 0, "ground layers mask is empty")
	check(finite(t.SlideThreshold) && t.SlideThreshold >= 0 && t.SlideThreshold <= 1, "slide threshold %v outside [0,1]", t.SlideThreshold)
	check(finite(t.SlideForce) && t.SlideForce >= 0, "slide force %v must be >= 0", t.SlideForce)
	check(finite(t.MaxSlideSpeed) && t.MaxSlideSpeed >= 0, "max slide speed %v must be >= 0", t.MaxSlideSpeed)

	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
