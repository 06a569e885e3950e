// Package solver contains a genetic algorithm that searches for a
// minimum-cost resource-feasible path by evolving visitation orders over a
// graph's intermediate nodes.
package solver

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/cbarrios/rcsp-ga/rcsp"
	"github.com/rhartert/yagh"
)

const (
	defaultTournamentSize = 3
	defaultEliteFraction  = 0.1
)

type Config struct {
	// PopulationSize is the number of chromosomes held in each
	// generation.
	PopulationSize int

	// Generations is the number of evolution steps performed by Solve.
	// It is the run's only budget: each generation costs at most
	// PopulationSize decodes.
	Generations int

	// CrossoverRate is the probability in [0, 1] that two selected
	// parents are recombined. When they are not, the fitter parent is
	// cloned instead.
	CrossoverRate float64

	// MutationRate is the probability in [0, 1] that a child has two of
	// its gene positions swapped.
	MutationRate float64

	// ResourceLimits holds one non-negative ceiling per resource
	// dimension. A path is feasible only if its cumulative consumption
	// stays within every ceiling.
	ResourceLimits []float64

	// TournamentSize is the number of individuals sampled (with
	// replacement) per parent selection. Defaults to 3 when zero.
	TournamentSize int

	// EliteFraction is the fraction of the population copied verbatim
	// into the next generation. Defaults to 0.1 when zero.
	EliteFraction float64
}

func (cfg *Config) validate(g *rcsp.Graph) error {
	if cfg.PopulationSize <= 0 {
		return fmt.Errorf("population size must be positive, got %d", cfg.PopulationSize)
	}
	if cfg.Generations < 0 {
		return fmt.Errorf("number of generations must be non-negative, got %d", cfg.Generations)
	}
	if r := cfg.CrossoverRate; r < 0 || 1 < r {
		return fmt.Errorf("crossover rate must be in [0, 1], got %f", r)
	}
	if r := cfg.MutationRate; r < 0 || 1 < r {
		return fmt.Errorf("mutation rate must be in [0, 1], got %f", r)
	}
	if len(cfg.ResourceLimits) != g.NumResources() {
		return fmt.Errorf("got %d resource limits, want %d", len(cfg.ResourceLimits), g.NumResources())
	}
	for i, l := range cfg.ResourceLimits {
		if l < 0 {
			return fmt.Errorf("resource limit %d must be non-negative, got %f", i, l)
		}
	}
	if cfg.TournamentSize < 0 {
		return fmt.Errorf("tournament size must be non-negative, got %d", cfg.TournamentSize)
	}
	if f := cfg.EliteFraction; f < 0 || 1 < f {
		return fmt.Errorf("elite fraction must be in [0, 1], got %f", f)
	}
	return nil
}

// GeneticSolver evolves a population of permutation chromosomes, scoring
// each one by decoding it into a path: fitness is 1/cost for a feasible
// decode and 0 otherwise, so cheaper paths rank higher and infeasible
// chromosomes stay selectable but face the weakest selection pressure.
type GeneticSolver struct {
	Graph *rcsp.Graph
	Cfg   Config

	population []*rcsp.Chromosome

	// Population slots keyed by negated fitness, so Min() is always the
	// incumbent best individual.
	byFitness *yagh.IntMap[float64]
}

// New returns a new genetic solver for the given graph. The graph must
// have at least one intermediate node; with none there is no permutation
// to evolve.
func New(g *rcsp.Graph, cfg Config) (*GeneticSolver, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: graph is nil", rcsp.ErrInvalidGraph)
	}
	if g.NumNodes() < 3 {
		return nil, fmt.Errorf("%w: no intermediate nodes to permute (%d nodes)", rcsp.ErrInvalidGraph, g.NumNodes())
	}
	if err := cfg.validate(g); err != nil {
		return nil, err
	}
	if cfg.TournamentSize == 0 {
		cfg.TournamentSize = defaultTournamentSize
	}
	if cfg.EliteFraction == 0 {
		cfg.EliteFraction = defaultEliteFraction
	}

	return &GeneticSolver{
		Graph:     g,
		Cfg:       cfg,
		byFitness: yagh.New[float64](cfg.PopulationSize),
	}, nil
}

// Init fills the population with random chromosomes and evaluates them.
func (s *GeneticSolver) Init(rng *rand.Rand) {
	s.population = make([]*rcsp.Chromosome, s.Cfg.PopulationSize)
	for i := range s.population {
		s.population[i] = rcsp.NewRandomChromosome(s.Graph.NumNodes(), rng)
		s.evaluate(s.population[i])
	}
	s.rank()
}

// Evolve replaces the population with the next generation: the top
// EliteFraction of the current generation is carried over verbatim and the
// remaining slots are filled with evaluated children of tournament-selected
// parents.
func (s *GeneticSolver) Evolve(rng *rand.Rand) {
	size := s.Cfg.PopulationSize
	sort.SliceStable(s.population, func(i, j int) bool {
		return s.population[i].Fitness > s.population[j].Fitness
	})

	eliteSize := int(s.Cfg.EliteFraction * float64(size))
	next := make([]*rcsp.Chromosome, 0, size)
	for i := 0; i < eliteSize; i++ {
		next = append(next, s.population[i].Clone())
	}

	for len(next) < size {
		parent1 := s.selectParent(rng)
		parent2 := s.selectParent(rng)

		var child *rcsp.Chromosome
		if rng.Float64() < s.Cfg.CrossoverRate {
			child = rcsp.Crossover(parent1, parent2, rng)
		} else if parent1.Fitness > parent2.Fitness {
			child = parent1
		} else {
			child = parent2
		}

		child.Mutate(s.Cfg.MutationRate, rng)
		s.evaluate(child)
		next = append(next, child)
	}

	s.population = next
	s.rank()
}

// Best returns the fittest chromosome of the current population. Init must
// have been called first.
func (s *GeneticSolver) Best() *rcsp.Chromosome {
	entry := s.byFitness.Min()
	return s.population[entry.Elem]
}

// BestFitness returns the fitness of the best chromosome in the current
// population.
func (s *GeneticSolver) BestFitness() float64 {
	entry := s.byFitness.Min()
	return -entry.Cost
}

// Solve runs the full evolutionary search and decodes the best chromosome
// found. The second return value is false if that chromosome admits no
// feasible path, which means the whole run found none: elitism never
// displaces a feasible (positive fitness) individual with an infeasible
// one.
func (s *GeneticSolver) Solve(rng *rand.Rand) (rcsp.Path, bool) {
	s.Init(rng)
	for i := 0; i < s.Cfg.Generations; i++ {
		s.Evolve(rng)
	}
	return rcsp.Decode(s.Graph, s.Best(), s.Cfg.ResourceLimits)
}

// selectParent picks a parent by tournament selection: TournamentSize
// individuals are sampled uniformly with replacement and a clone of the
// fittest is returned. The earliest sampled individual wins ties.
func (s *GeneticSolver) selectParent(rng *rand.Rand) *rcsp.Chromosome {
	best := s.population[rng.Intn(len(s.population))]
	for i := 1; i < s.Cfg.TournamentSize; i++ {
		competitor := s.population[rng.Intn(len(s.population))]
		if competitor.Fitness > best.Fitness {
			best = competitor
		}
	}
	return best.Clone()
}

func (s *GeneticSolver) evaluate(c *rcsp.Chromosome) {
	if path, ok := rcsp.Decode(s.Graph, c, s.Cfg.ResourceLimits); ok {
		c.Fitness = 1.0 / path.Cost
	} else {
		c.Fitness = 0
	}
}

func (s *GeneticSolver) rank() {
	for i, c := range s.population {
		s.byFitness.Put(i, -c.Fitness)
	}
}
