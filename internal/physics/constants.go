package physics

const (
	DefaultGravityY   = -9.81
	DefaultMass       = 1.0
	DefaultHalfHeight = 1.0

	// StepHeight is how far above the feet a surface may sit and still be
	// walked onto during resolution.
	StepHeight = 0.3

	CollisionAxisTolerance = 1e-9
	MinimumResidualSpeed   = 1e-6
)
