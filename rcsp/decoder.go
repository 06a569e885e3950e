package rcsp

import (
	"container/heap"
	"math"

	"github.com/rhartert/sparsesets"
)

// state is a frontier entry of the decoder: a node together with the cost
// and resource consumption accumulated on the path that reached it, the
// node it was reached from, and the node's rank in the chromosome.
type state struct {
	node      int
	cost      float64
	resources []float64
	prev      int
	rank      int
}

// frontier is a min-heap of states ordered by (rank, cost): the search
// expands nodes in the order the chromosome prescribes and breaks rank
// ties in favor of cheaper partial paths.
type frontier []*state

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].rank != f[j].rank {
		return f[i].rank < f[j].rank
	}
	return f[i].cost < f[j].cost
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*state)) }

func (f *frontier) Pop() any {
	old := *f
	s := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return s
}

// Decode searches for a feasible path from the graph's source to its sink
// whose node visitation order is biased by the chromosome: the frontier is
// ordered by the destination's gene rank first and by accumulated cost
// second, so distinct chromosomes decode to distinct paths. Nodes absent
// from the chromosome (the sink in particular) rank last. An edge is taken
// only if the accumulated resource vector stays within limits on every
// dimension.
//
// This is a heuristic decode, not an exact solver: the first time the sink
// leaves the frontier the search commits to that path, which is minimal
// under the (rank, cost) order but not necessarily minimum-cost.
//
// The limits slice must hold exactly one ceiling per resource dimension
// declared by the graph; a vector of any other length matches no edge and
// decodes to no path.
//
// The second return value is false if no feasible path exists under the
// given limits.
func Decode(g *Graph, ch *Chromosome, limits []float64) (Path, bool) {
	if len(limits) != g.NumResources() {
		return Path{}, false
	}

	ranks := make([]int, g.NumNodes())
	for i := range ranks {
		ranks[i] = math.MaxInt
	}
	for i, node := range ch.Genes {
		ranks[node] = i
	}

	visited := sparsesets.New(g.NumNodes())
	cameFrom := make([]int, g.NumNodes())

	f := &frontier{}
	heap.Push(f, &state{
		node:      g.Source(),
		resources: make([]float64, len(limits)),
		prev:      -1,
		rank:      0,
	})

	for f.Len() > 0 {
		current := heap.Pop(f).(*state)

		// Skip entries for nodes that already left the frontier with a
		// better (rank, cost) key.
		if visited.Contains(current.node) {
			continue
		}
		visited.Insert(current.node)
		cameFrom[current.node] = current.prev

		if current.node == g.Sink() {
			path := []int{current.node}
			for node := current.prev; node != -1; node = cameFrom[node] {
				path = append(path, node)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return Path{Nodes: path, Cost: current.cost}, true
		}

		for _, e := range g.Nexts[current.node] {
			edge := g.Edges[e]

			resources := make([]float64, len(limits))
			feasible := true
			for i := range limits {
				resources[i] = current.resources[i] + edge.Resources[i]
				if resources[i] > limits[i] {
					feasible = false
					break
				}
			}
			if !feasible {
				continue
			}

			heap.Push(f, &state{
				node:      edge.To,
				cost:      current.cost + edge.Cost,
				resources: resources,
				prev:      current.node,
				rank:      ranks[edge.To],
			})
		}
	}

	return Path{}, false
}
