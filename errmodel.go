package wdm

// errmodel.go implements the optical error model, the per-packet
// corruption decision applied at the receiving side of a channel.

import (
	"fmt"
	"math"
)

// An OpticalErrorModel decides whether a packet arriving on a channel is
// corrupted.  Every bit of the packet is an independent Bernoulli trial
// with success probability equal to the configured bit-error-rate; the
// packet is corrupted if any trial succeeds.  The signal-to-noise figure
// is informational metadata and plays no part in the decision.
type OpticalErrorModel struct {
	ber   float64       // per-bit corruption probability, in [0,1]
	snrDb float64       // informational only
	src   UniformSource // supplies one uniform draw per trial
}

// CreateOpticalErrorModel is a constructor.  A bit-error-rate outside
// [0,1] is rejected here, before the simulation clock ever starts.
func CreateOpticalErrorModel(ber, snrDb float64, src UniformSource) (*OpticalErrorModel, error) {
	em := new(OpticalErrorModel)
	em.snrDb = snrDb
	em.src = src
	if err := em.SetBer(ber); err != nil {
		return nil, err
	}
	return em, nil
}

// SetBer assigns the bit-error-rate, rejecting values outside [0,1]
func (em *OpticalErrorModel) SetBer(ber float64) error {
	if math.IsNaN(ber) || ber < 0.0 || ber > 1.0 {
		return fmt.Errorf("bit-error-rate %g outside [0,1]", ber)
	}
	em.ber = ber
	return nil
}

// SetSnrDb assigns the informational signal-to-noise figure
func (em *OpticalErrorModel) SetSnrDb(snrDb float64) {
	em.snrDb = snrDb
}

// Ber returns the configured bit-error-rate
func (em *OpticalErrorModel) Ber() float64 {
	return em.ber
}

// SnrDb returns the configured signal-to-noise figure
func (em *OpticalErrorModel) SnrDb() float64 {
	return em.snrDb
}

// ShouldCorrupt samples the corruption decision for a packet of the
// given size.  One uniform draw is consumed per bit until a trial
// succeeds, so a corrupted packet stops sampling at the corrupting bit
// while a clean packet consumes sizeBytes*8 draws.  N.B. the draw count
// scales with packet size; the cost is kept to preserve draw-for-draw
// reproducibility under a fixed seed.
func (em *OpticalErrorModel) ShouldCorrupt(sizeBytes int) bool {
	bits := sizeBytes * 8
	for i := 0; i < bits; i++ {
		if em.src.RandU01() < em.ber {
			return true
		}
	}
	return false
}

// CorruptProb returns the closed-form corruption probability
// 1-(1-ber)^bits for a packet of the given size.  Reporting and tests
// use it as the oracle for the sampled decision.
func (em *OpticalErrorModel) CorruptProb(sizeBytes int) float64 {
	if sizeBytes <= 0 {
		return 0.0
	}
	return 1.0 - math.Pow(1.0-em.ber, float64(sizeBytes*8))
}

// Reset clears accumulated state.  The model keeps none beyond its
// configuration, so ber and snr are left untouched.
func (em *OpticalErrorModel) Reset() {
}
