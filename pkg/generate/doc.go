// Package generate synthesizes the entities of a dataset. Every function that
// needs randomness takes an explicit *rand.Rand so a run can be reproduced
// from its seed; none of them read ambient global state or mutate their
// inputs.
package generate
