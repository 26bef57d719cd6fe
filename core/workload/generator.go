// Package workload produces the synthetic process populations replayed by the
// scheduler engine. A population is generated once and cloned for every policy.
package workload

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/schedsim/core/logger"
	"github.com/kilianp07/schedsim/core/model"
)

// Sampler draws the random quantities of one process.
type Sampler interface {
	// Arrival returns a tick uniformly drawn from [0, horizon).
	Arrival(horizon int) int
	// Service returns a raw Gaussian sample with the given mean and deviation.
	Service(mean, stddev float64) float64
}

// GaussianSampler draws arrivals from a discrete uniform distribution and
// service demands from a normal distribution, both fed by one PCG source.
type GaussianSampler struct {
	src rand.Source
	rng *rand.Rand
}

// NewGaussianSampler returns a sampler seeded with seed. A zero seed selects a
// time based seed.
func NewGaussianSampler(seed uint64) *GaussianSampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &GaussianSampler{src: src, rng: rand.New(src)}
}

// Arrival implements Sampler.
func (s *GaussianSampler) Arrival(horizon int) int { return s.rng.IntN(horizon) }

// Service implements Sampler.
func (s *GaussianSampler) Service(mean, stddev float64) float64 {
	n := distuv.Normal{Mu: mean, Sigma: stddev, Src: s.src}
	return n.Rand()
}

// ServiceTicks converts a raw Gaussian sample into a service demand.
// The +1 keeps the demand of small samples positive and biases the mean
// upward by one tick. Samples below -1 would still yield a non-positive
// demand; those are raised to 1.
func ServiceTicks(sample float64) int {
	ticks := int(math.Floor(sample)) + 1
	if ticks < 1 {
		return 1
	}
	return ticks
}

// Generator builds populations from Params.
type Generator struct {
	sampler Sampler
	log     logger.Logger
}

// NewGenerator returns a Generator drawing from s. A nil logger disables logging.
func NewGenerator(s Sampler, log logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop{}
	}
	return &Generator{sampler: s, log: log}
}

// Generate validates p and produces one population of p.Processes processes.
// Samples are drawn in id order, arrival first.
func (g *Generator) Generate(p Params) (*model.Registry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ps := make([]model.Process, p.Processes)
	clamped := 0
	for i := range ps {
		arrival := g.sampler.Arrival(p.ArrivalHorizon)
		sample := g.sampler.Service(p.MeanService, p.ServiceStdDev)
		if int(math.Floor(sample))+1 < 1 {
			clamped++
		}
		ps[i] = model.NewProcess(i, arrival, ServiceTicks(sample))
	}
	if clamped > 0 {
		g.log.Warnf("%d service samples were below zero and raised to 1 tick", clamped)
	}
	g.log.Debugw("population generated", map[string]any{
		"k": p.ArrivalHorizon, "d": p.MeanService, "v": p.ServiceStdDev, "n": p.Processes,
	})
	return &model.Registry{Processes: ps}, nil
}
