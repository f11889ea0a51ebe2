package types

import "errors"

// Fabric contract violations. The simulation core panics with errors
// wrapping these; they are never returned.
var (
	ErrJointIndex        = errors.New("joint index out of range")
	ErrFaceIndex         = errors.New("face index out of range")
	ErrInvalidStiffness  = errors.New("stiffness must be positive")
	ErrInvalidDensity    = errors.New("linear density must be positive")
	ErrInvalidRestLength = errors.New("rest length must be positive")
	ErrInvalidShape      = errors.New("shape out of range")
)

// Value errors.
var (
	ErrInvalidStage = errors.New("invalid stage")
	ErrInvalidRole  = errors.New("invalid interval role")
	ErrInvalidWorld = errors.New("invalid world constants")
)

// Blueprint and runner errors.
var (
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	ErrUnknownBlueprint = errors.New("unknown blueprint")
	ErrFrameLimit       = errors.New("frame limit reached before realized")
)

// Store errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("run not found")
	ErrInvalidID       = errors.New("invalid run ID")
)
