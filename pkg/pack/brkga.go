package pack

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/observability"
)

// Fitness constants. Every unplaced priority package forfeits PenaltyCost;
// every distinct ULD recruited for priority cargo costs CostPerULD.
const (
	PenaltyCost = 10_000_000
	CostPerULD  = 5_000
)

// Params configures the biased random-key genetic search.
type Params struct {
	// Population is the number of chromosomes per generation.
	Population int `json:"population"`
	// Generations is the number of evolution steps.
	Generations int `json:"generations"`
	// Elites is the number of best chromosomes carried forward unchanged.
	Elites int `json:"elites"`
	// EliteBias is the probability that an offspring gene comes from the
	// elite parent during crossover.
	EliteBias float64 `json:"elite_bias"`
}

// DefaultParams returns the reference parameterization.
func DefaultParams() Params {
	return Params{Population: 2, Generations: 500, Elites: 1, EliteBias: 0.8}
}

func (p Params) validate() error {
	if p.Population < 2 {
		return errors.New(errors.ErrCodeInvalidParams, "population must be at least 2, got %d", p.Population)
	}
	if p.Generations < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "generations must be at least 1, got %d", p.Generations)
	}
	if p.Elites < 1 || p.Elites >= p.Population {
		return errors.New(errors.ErrCodeInvalidParams, "elites must be in [1, population), got %d", p.Elites)
	}
	if p.EliteBias < 0 || p.EliteBias > 1 {
		return errors.New(errors.ErrCodeInvalidParams, "elite bias must be in [0, 1], got %g", p.EliteBias)
	}
	return nil
}

// chromosome is one candidate solution: two random-key vectors that decode
// to a priority order and an economy order. Evaluation is lazy and happens
// at most once; the fitness and placement are memoized on the chromosome.
type chromosome struct {
	priorityKeys []float64
	economyKeys  []float64

	evaluated      bool
	fitness        float64
	placements     []Placement
	uldWeights     []float64
	priorityPlaced int
	priorityULDs   int
}

// Solver runs the biased random-key genetic algorithm over a fixed set of
// packages and ULDs. A Solver owns its random number generator; two solvers
// constructed with the same inputs and seed produce identical solutions.
// A Solver must not be shared across goroutines.
type Solver struct {
	pkgs    []Package
	ulds    []ULD
	pkgDims [][3]int
	uldDims [][3]int

	priorityIdx []int
	economyIdx  []int
	totalCost   float64

	params Params
	rng    *rand.Rand
}

// NewSolver validates the inputs and prepares a solver. The seed makes the
// run reproducible; vary it across runs to diversify the search.
func NewSolver(pkgs []Package, ulds []ULD, params Params, seed int64) (*Solver, error) {
	if err := ValidateInput(pkgs, ulds); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		pkgs:    pkgs,
		ulds:    ulds,
		pkgDims: make([][3]int, len(pkgs)),
		uldDims: make([][3]int, len(ulds)),
		params:  params,
		rng:     rand.New(rand.NewSource(seed)),
	}
	for i, p := range pkgs {
		s.pkgDims[i] = p.Dims()
		s.totalCost += p.Cost
		if p.Priority {
			s.priorityIdx = append(s.priorityIdx, i)
		} else {
			s.economyIdx = append(s.economyIdx, i)
		}
	}
	for i, u := range ulds {
		s.uldDims[i] = u.Dims()
	}
	return s, nil
}

// newChromosome draws fresh uniform random keys for both vectors.
func (s *Solver) newChromosome() *chromosome {
	c := &chromosome{
		priorityKeys: make([]float64, len(s.priorityIdx)),
		economyKeys:  make([]float64, len(s.economyIdx)),
	}
	for i := range c.priorityKeys {
		c.priorityKeys[i] = s.rng.Float64()
	}
	for i := range c.economyKeys {
		c.economyKeys[i] = s.rng.Float64()
	}
	return c
}

// crossover produces one offspring by biased uniform crossover: each gene
// is inherited from the elite parent with probability EliteBias, otherwise
// from the non-elite parent. Keys are never blended.
func (s *Solver) crossover(elite, nonElite *chromosome) *chromosome {
	c := &chromosome{
		priorityKeys: make([]float64, len(s.priorityIdx)),
		economyKeys:  make([]float64, len(s.economyIdx)),
	}
	for i := range c.priorityKeys {
		if s.rng.Float64() < s.params.EliteBias {
			c.priorityKeys[i] = elite.priorityKeys[i]
		} else {
			c.priorityKeys[i] = nonElite.priorityKeys[i]
		}
	}
	for i := range c.economyKeys {
		if s.rng.Float64() < s.params.EliteBias {
			c.economyKeys[i] = elite.economyKeys[i]
		} else {
			c.economyKeys[i] = nonElite.economyKeys[i]
		}
	}
	return c
}

// decode turns a random-key vector into a package order: positions are
// stable-sorted by key value, then mapped through the fixed index subset.
func decode(keys []float64, subset []int) []int {
	pos := make([]int, len(keys))
	for i := range pos {
		pos[i] = i
	}
	sort.SliceStable(pos, func(i, j int) bool {
		return keys[pos[i]] < keys[pos[j]]
	})
	order := make([]int, len(pos))
	for i, p := range pos {
		order[i] = subset[p]
	}
	return order
}

// evaluate decodes, places, compacts, and scores a chromosome. The result
// is memoized; repeated calls are free.
func (s *Solver) evaluate(c *chromosome) {
	if c.evaluated {
		return
	}
	c.evaluated = true

	priorityOrder := decode(c.priorityKeys, s.priorityIdx)
	economyOrder := decode(c.economyKeys, s.economyIdx)

	st := newState(s)
	st.placePriority(priorityOrder)
	st.compact(FaceNegX)

	st.resetAnchors()
	st.placeEconomy(economyOrder)
	st.compact(FaceNegX)

	st.resetAnchors()
	st.placeLeftover(economyOrder)

	c.placements = st.placements
	c.uldWeights = st.uldWeights

	inULD := make(map[int]bool)
	var economyRevenue float64
	for _, pl := range st.placements {
		if s.pkgs[pl.Package].Priority {
			c.priorityPlaced++
			inULD[pl.ULD] = true
		} else {
			economyRevenue += s.pkgs[pl.Package].Cost
		}
	}
	c.priorityULDs = len(inULD)

	// Lower is better. The total-cost offset keeps magnitudes aligned with
	// the historical scoring and drops out of the ranking.
	c.fitness = s.totalCost -
		economyRevenue -
		PenaltyCost*float64(c.priorityPlaced) +
		CostPerULD*float64(c.priorityULDs)
}

func sortByFitness(pop []*chromosome) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].fitness < pop[j].fitness
	})
}

// Run evolves the population for the configured number of generations and
// returns the best solution found. The context is checked between
// generations; a cancelled run returns the context error.
func (s *Solver) Run(ctx context.Context) (*Solution, error) {
	start := time.Now()
	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, len(s.pkgs), len(s.ulds))

	pop := make([]*chromosome, s.params.Population)
	for i := range pop {
		pop[i] = s.newChromosome()
		s.evaluate(pop[i])
	}
	sortByFitness(pop)

	for gen := 0; gen < s.params.Generations; gen++ {
		select {
		case <-ctx.Done():
			hooks.OnSolveComplete(ctx, time.Since(start), 0, ctx.Err())
			return nil, ctx.Err()
		default:
		}

		next := make([]*chromosome, 0, s.params.Population)
		next = append(next, pop[:s.params.Elites]...)

		elite := pop[s.rng.Intn(s.params.Elites)]
		nonElite := pop[s.params.Elites+s.rng.Intn(len(pop)-s.params.Elites)]
		offspring := s.crossover(elite, nonElite)
		s.evaluate(offspring)
		next = append(next, offspring)

		for len(next) < s.params.Population {
			c := s.newChromosome()
			s.evaluate(c)
			next = append(next, c)
		}

		sortByFitness(next)
		pop = next
		hooks.OnGeneration(ctx, gen, pop[0].fitness)
	}

	sol := s.solution(pop[0])
	if err := Verify(sol, s.pkgs, s.ulds); err != nil {
		hooks.OnSolveComplete(ctx, time.Since(start), 0, err)
		return nil, err
	}
	hooks.OnSolveComplete(ctx, time.Since(start), len(sol.Placements), nil)
	return sol, nil
}

func (s *Solver) solution(c *chromosome) *Solution {
	sol := &Solution{
		Placements:     append([]Placement(nil), c.placements...),
		Fitness:        c.fitness,
		PriorityPlaced: c.priorityPlaced,
		PriorityULDs:   c.priorityULDs,
		ULDWeights:     append([]float64(nil), c.uldWeights...),
	}
	placed := make([]bool, len(s.pkgs))
	for _, pl := range c.placements {
		placed[pl.Package] = true
	}
	for i := range s.pkgs {
		if !placed[i] {
			sol.Unplaced = append(sol.Unplaced, i)
		}
	}
	return sol
}
