package rcsp

import "math/rand"

// Chromosome encodes a candidate solution as a permutation of the graph's
// intermediate nodes (1 to NumNodes()-2). The permutation expresses a
// visitation preference: the earlier a node appears in Genes, the sooner
// the decoder tries to route through it. Fitness is derived data assigned
// by the solver after decoding; it is 0 until the chromosome is evaluated.
type Chromosome struct {
	Genes   []int
	Fitness float64
}

// NewRandomChromosome returns a chromosome whose genes are a uniformly
// random permutation of the intermediate nodes of a graph with nNodes
// nodes.
func NewRandomChromosome(nNodes int, rng *rand.Rand) *Chromosome {
	genes := make([]int, nNodes-2)
	for i := range genes {
		genes[i] = i + 1
	}
	rng.Shuffle(len(genes), func(i, j int) {
		genes[i], genes[j] = genes[j], genes[i]
	})
	return &Chromosome{Genes: genes}
}

// Crossover combines two parent chromosomes into a child using order
// crossover (OX): a random segment of p1 is copied verbatim and the
// remaining positions are filled with p2's genes in their original order,
// wrapping circularly from the end of the segment.
//
// Both parents must be permutations of the same gene set. Under that
// invariant p2 always supplies exactly the genes missing from the copied
// segment, so every child position is filled and the child is itself a
// permutation. The child's fitness is 0 until evaluated.
func Crossover(p1 *Chromosome, p2 *Chromosome, rng *rand.Rand) *Chromosome {
	n := len(p1.Genes)
	start := rng.Intn(n)
	end := rng.Intn(n)
	if start > end {
		start, end = end, start
	}

	genes := make([]int, n)
	used := make([]bool, n+2) // gene values range over [1, n+1)

	for i := start; i <= end; i++ {
		genes[i] = p1.Genes[i]
		used[p1.Genes[i]] = true
	}

	j := (end + 1) % n
	for _, gene := range p2.Genes {
		if used[gene] {
			continue
		}
		genes[j] = gene
		j = (j + 1) % n
		if j == start {
			break
		}
	}

	return &Chromosome{Genes: genes}
}

// Mutate swaps two uniformly drawn gene positions with probability rate.
// The two positions may coincide, in which case the swap is a no-op. The
// chromosome is modified in place.
func (c *Chromosome) Mutate(rate float64, rng *rand.Rand) {
	if rng.Float64() < rate {
		i := rng.Intn(len(c.Genes))
		j := rng.Intn(len(c.Genes))
		c.Genes[i], c.Genes[j] = c.Genes[j], c.Genes[i]
	}
}

// Clone returns a deep copy of the chromosome.
func (c *Chromosome) Clone() *Chromosome {
	genes := make([]int, len(c.Genes))
	copy(genes, c.Genes)
	return &Chromosome{Genes: genes, Fitness: c.Fitness}
}
