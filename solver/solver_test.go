package solver

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/cbarrios/rcsp-ga/rcsp"
	"github.com/google/go-cmp/cmp"
)

// testInstance returns a 5-node instance with limits [5, 7]. The cheapest
// feasible path is 0 -> 2 -> 3 -> 4 with cost 6; the cost-6 alternative
// 0 -> 1 -> 2 -> 3 -> 4 exceeds the second resource ceiling.
func testInstance(t *testing.T) (*rcsp.Graph, []float64) {
	t.Helper()
	g, err := rcsp.NewGraph(5, 2, []rcsp.Edge{
		{From: 0, To: 1, Cost: 2, Resources: []float64{1, 2}},
		{From: 0, To: 2, Cost: 3, Resources: []float64{2, 1}},
		{From: 1, To: 2, Cost: 1, Resources: []float64{1, 1}},
		{From: 1, To: 3, Cost: 4, Resources: []float64{2, 3}},
		{From: 2, To: 3, Cost: 2, Resources: []float64{1, 4}},
		{From: 2, To: 4, Cost: 5, Resources: []float64{3, 1}},
		{From: 3, To: 4, Cost: 1, Resources: []float64{1, 2}},
	})
	if err != nil {
		t.Fatalf("NewGraph(): want no error, got %s", err)
	}
	return g, []float64{5, 7}
}

func testConfig(limits []float64) Config {
	return Config{
		PopulationSize: 50,
		Generations:    100,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		ResourceLimits: limits,
	}
}

func TestNew_errors(t *testing.T) {
	_, limits := testInstance(t)
	twoNodes, err := rcsp.NewGraph(2, 2, nil)
	if err != nil {
		t.Fatalf("NewGraph(): want no error, got %s", err)
	}

	testCases := []struct {
		desc    string
		graph   *rcsp.Graph
		cfg     Config
		wantErr error
	}{
		{
			desc:    "nil graph",
			graph:   nil,
			cfg:     testConfig(limits),
			wantErr: rcsp.ErrInvalidGraph,
		},
		{
			desc:    "no intermediate nodes",
			graph:   twoNodes,
			cfg:     testConfig(limits),
			wantErr: rcsp.ErrInvalidGraph,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := New(tc.graph, tc.cfg)

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("New(): want error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNew_configErrors(t *testing.T) {
	g, limits := testInstance(t)

	testCases := []struct {
		desc   string
		mutate func(cfg *Config)
	}{
		{
			desc:   "zero population",
			mutate: func(cfg *Config) { cfg.PopulationSize = 0 },
		},
		{
			desc:   "negative generations",
			mutate: func(cfg *Config) { cfg.Generations = -1 },
		},
		{
			desc:   "crossover rate above 1",
			mutate: func(cfg *Config) { cfg.CrossoverRate = 1.5 },
		},
		{
			desc:   "negative mutation rate",
			mutate: func(cfg *Config) { cfg.MutationRate = -0.1 },
		},
		{
			desc:   "missing resource limit",
			mutate: func(cfg *Config) { cfg.ResourceLimits = []float64{5} },
		},
		{
			desc:   "negative resource limit",
			mutate: func(cfg *Config) { cfg.ResourceLimits = []float64{5, -7} },
		},
		{
			desc:   "negative tournament size",
			mutate: func(cfg *Config) { cfg.TournamentSize = -1 },
		},
		{
			desc:   "elite fraction above 1",
			mutate: func(cfg *Config) { cfg.EliteFraction = 2 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := testConfig(limits)
			tc.mutate(&cfg)

			if _, err := New(g, cfg); err == nil {
				t.Errorf("New(): want an error, got none")
			}
		})
	}
}

func TestGeneticSolver_findsCheapestFeasiblePath(t *testing.T) {
	g, limits := testInstance(t)
	gs, err := New(g, testConfig(limits))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}

	path, ok := gs.Solve(rand.New(rand.NewSource(42)))

	if !ok {
		t.Fatalf("Solve(): want a feasible path, got none")
	}
	if path.Cost != 6 {
		t.Errorf("Solve(): want cost 6, got %f (path %v)", path.Cost, path.Nodes)
	}
	if path.Nodes[0] != g.Source() || path.Nodes[len(path.Nodes)-1] != g.Sink() {
		t.Errorf("Solve(): path %v does not connect source to sink", path.Nodes)
	}
}

func TestGeneticSolver_zeroLimits(t *testing.T) {
	g, _ := testInstance(t)
	gs, err := New(g, testConfig([]float64{0, 0}))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}

	if _, ok := gs.Solve(rand.New(rand.NewSource(42))); ok {
		t.Errorf("Solve(): want no path under zero limits, got one")
	}
}

func TestGeneticSolver_deterministic(t *testing.T) {
	g, limits := testInstance(t)

	run := func() rcsp.Path {
		gs, err := New(g, testConfig(limits))
		if err != nil {
			t.Fatalf("New(): want no error, got %s", err)
		}
		path, ok := gs.Solve(rand.New(rand.NewSource(42)))
		if !ok {
			t.Fatalf("Solve(): want a feasible path, got none")
		}
		return path
	}

	first := run()
	second := run()

	if diff := cmp.Diff(first.Nodes, second.Nodes); diff != "" {
		t.Errorf("Solve(): same seed, different paths (-want +got):\n%s", diff)
	}
	if first.Cost != second.Cost {
		t.Errorf("Solve(): same seed, different costs: %f vs %f", first.Cost, second.Cost)
	}
}

func TestGeneticSolver_bestFitnessNeverDecreases(t *testing.T) {
	g, limits := testInstance(t)
	gs, err := New(g, testConfig(limits))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}
	rng := rand.New(rand.NewSource(42))

	gs.Init(rng)
	best := gs.BestFitness()
	for i := 0; i < 30; i++ {
		gs.Evolve(rng)

		got := gs.BestFitness()
		if got < best {
			t.Fatalf("BestFitness(): dropped from %f to %f at generation %d", best, got, i)
		}
		best = got
	}
}

func TestGeneticSolver_bestMatchesPopulation(t *testing.T) {
	g, limits := testInstance(t)
	gs, err := New(g, testConfig(limits))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}
	rng := rand.New(rand.NewSource(42))

	gs.Init(rng)
	gs.Evolve(rng)

	want := 0.0
	for _, c := range gs.population {
		if c.Fitness > want {
			want = c.Fitness
		}
	}

	if got := gs.BestFitness(); got != want {
		t.Errorf("BestFitness(): want %f, got %f", want, got)
	}
	if got := gs.Best().Fitness; got != want {
		t.Errorf("Best().Fitness: want %f, got %f", want, got)
	}
}

func TestGeneticSolver_populationStaysPermutations(t *testing.T) {
	g, limits := testInstance(t)
	gs, err := New(g, testConfig(limits))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}
	rng := rand.New(rand.NewSource(42))

	gs.Init(rng)
	for i := 0; i < 10; i++ {
		gs.Evolve(rng)
	}

	want := []int{1, 2, 3}
	for i, c := range gs.population {
		genes := make([]int, len(c.Genes))
		copy(genes, c.Genes)
		sort.Ints(genes)

		if diff := cmp.Diff(want, genes); diff != "" {
			t.Errorf("population[%d]: not a permutation (-want +got):\n%s", i, diff)
		}
	}
}

func TestGeneticSolver_fitnessMatchesDecode(t *testing.T) {
	g, limits := testInstance(t)
	gs, err := New(g, testConfig(limits))
	if err != nil {
		t.Fatalf("New(): want no error, got %s", err)
	}
	rng := rand.New(rand.NewSource(42))

	gs.Init(rng)
	gs.Evolve(rng)

	for i, c := range gs.population {
		want := 0.0
		if path, ok := rcsp.Decode(g, c, limits); ok {
			want = 1.0 / path.Cost
		}
		if c.Fitness != want {
			t.Errorf("population[%d]: want fitness %f, got %f", i, want, c.Fitness)
		}
	}
}
