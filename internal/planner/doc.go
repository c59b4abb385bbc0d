// Package planner computes the partition of an upload source into fixed-size
// byte ranges. This includes full-part arithmetic, the trailing short part,
// and the protocol part-count cap.
//
// Planning is pure and deterministic: the same size inputs always produce the
// same plan, and no I/O happens here.
package planner
