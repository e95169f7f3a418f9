package recommend

import (
	"sort"
)

// pairKey is a canonicalized unordered product pair: A is always the smaller
// id, so each co-purchase edge is stored exactly once.
type pairKey struct {
	A string
	B string
}

func makePairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// PairGraph is an undirected weighted graph over product ids where an edge's
// weight is the number of past orders containing both products. It is built
// once during training and read-only afterwards, so it carries no locking.
type PairGraph struct {
	counts    map[pairKey]int
	neighbors map[string]map[string]int
}

// NewPairGraph returns an empty co-purchase graph.
func NewPairGraph() *PairGraph {
	return &PairGraph{
		counts:    make(map[pairKey]int),
		neighbors: make(map[string]map[string]int),
	}
}

// AddOrder records one order's product ids, incrementing every unordered pair
// once. Duplicate ids within the same order are collapsed first.
func (g *PairGraph) AddOrder(productIDs []string) {
	unique := make([]string, 0, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			g.addEdge(unique[i], unique[j])
		}
	}
}

func (g *PairGraph) addEdge(a, b string) {
	g.counts[makePairKey(a, b)]++

	if g.neighbors[a] == nil {
		g.neighbors[a] = make(map[string]int)
	}
	if g.neighbors[b] == nil {
		g.neighbors[b] = make(map[string]int)
	}
	g.neighbors[a][b]++
	g.neighbors[b][a]++
}

// Count returns how many orders contained both products, regardless of the
// argument order.
func (g *PairGraph) Count(a, b string) int {
	return g.counts[makePairKey(a, b)]
}

// Neighbor pairs a related product with its co-purchase count.
type Neighbor struct {
	ProductID string
	Count     int
}

// Neighbors returns every product that has appeared in an order together with
// productID, ordered by descending count (ties by id for determinism).
func (g *PairGraph) Neighbors(productID string) []Neighbor {
	adjacent := g.neighbors[productID]
	if len(adjacent) == 0 {
		return nil
	}

	result := make([]Neighbor, 0, len(adjacent))
	for id, count := range adjacent {
		result = append(result, Neighbor{ProductID: id, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].ProductID < result[j].ProductID
	})
	return result
}

// Pairs returns the number of distinct co-purchase edges in the graph.
func (g *PairGraph) Pairs() int {
	return len(g.counts)
}
