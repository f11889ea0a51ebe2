// Package fabric simulates a tensegrity fabric: joints (point masses)
// connected by push and pull intervals, stepped frame by frame through the
// Growing, Shaping, Slack, Realizing and Realized stages.
//
// Joints, intervals and faces live in slices owned by the Fabric and refer
// to one another by index. Removing an interval or face shifts the indices
// of everything after it and nothing checks for dangling references, so
// callers must not remove elements that others still refer to, and must
// serialize every mutating call on one Fabric.
//
// Construction contract violations (indices out of range, non-positive
// stiffness, density or rest length) panic with an error wrapping one of
// the sentinels in pkg/types.
package fabric
