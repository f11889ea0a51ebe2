// Package types defines the shared vocabulary of the pretenst simulator:
// lifecycle stages, interval roles, the world constants supplied to every
// frame, renderer snapshots, stored run records, and the standard errors.
package types
