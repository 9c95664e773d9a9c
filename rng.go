package wdm

// rng.go holds the random bit-corruption source: a seedable stream of
// uniform draws on [0,1) shared by the error models and the traffic
// generators, so that a fixed master seed replays a run exactly.

import "github.com/iti/rngstream"

// A UniformSource produces uniform random draws on [0,1).  The optical
// error model and the traffic generators consume randomness through
// this interface, so tests can substitute deterministic sources.
type UniformSource interface {
	RandU01() float64
}

// SetMasterSeed reseeds the package-wide rngstream factory.  Streams
// created afterwards replay the same draw sequence for the same seed.
func SetMasterSeed(seed uint64) {
	rngstream.SetRngStreamMasterSeed(seed)
}

// CreateUniformSource returns a named rngstream-backed source.  A
// simulation uses one sequential stream shared by every component that
// samples; exclusivity is structural, there is only one thread.
func CreateUniformSource(name string) UniformSource {
	return rngstream.New(name)
}
