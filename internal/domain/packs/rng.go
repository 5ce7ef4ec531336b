package packs

import "math/rand"

// sharedRNG delegates to the process-wide math/rand source, which is safe
// for concurrent use across requests.
type sharedRNG struct{}

func (sharedRNG) Float64() float64 { return rand.Float64() }
func (sharedRNG) Intn(n int) int   { return rand.Intn(n) }

func SharedRNG() RNG { return sharedRNG{} }
