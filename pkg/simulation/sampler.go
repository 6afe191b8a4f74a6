package simulation

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws exponentially distributed values
type Sampler interface {
	// Exp returns a draw from the exponential distribution with the given rate
	Exp(rate float64) float64
}

// ExpSampler draws from distuv.Exponential over one seeded source, so a run
// is reproducible from its seed.
type ExpSampler struct {
	src rand.Source
}

// NewExpSampler creates a sampler. A zero seed is replaced by the current time.
func NewExpSampler(seed int64) *ExpSampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ExpSampler{src: rand.NewSource(uint64(seed))}
}

// Exp returns a draw from Exp(rate)
func (s *ExpSampler) Exp(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand()
}

// InverseSampler draws by inversion of a uniform variate. It consumes one
// uniform draw per sample, which keeps it usable with scripted sources.
type InverseSampler struct {
	Uniform func() float64
}

// Exp returns -ln(u)/rate with u clamped into (0,1)
func (s InverseSampler) Exp(rate float64) float64 {
	u := s.Uniform()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	} else if u >= 1 {
		u = 1 - 1e-16
	}
	return -math.Log(u) / rate
}
