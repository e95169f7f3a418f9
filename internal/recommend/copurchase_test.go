package recommend

import "testing"

func TestPairGraphCanonicalPairs(t *testing.T) {
	g := NewPairGraph()
	g.AddOrder([]string{"cement", "sand"})
	g.AddOrder([]string{"sand", "cement"})

	if got := g.Count("cement", "sand"); got != 2 {
		t.Errorf("Count(cement, sand) = %d, want 2", got)
	}
	if got := g.Count("sand", "cement"); got != 2 {
		t.Errorf("Count(sand, cement) = %d, want 2", got)
	}
	if got := g.Pairs(); got != 1 {
		t.Errorf("Pairs() = %d, want 1", got)
	}
}

func TestPairGraphAddOrderAllPairs(t *testing.T) {
	g := NewPairGraph()
	g.AddOrder([]string{"a", "b", "c"})

	for _, pair := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		if got := g.Count(pair[0], pair[1]); got != 1 {
			t.Errorf("Count(%s, %s) = %d, want 1", pair[0], pair[1], got)
		}
	}
	if got := g.Pairs(); got != 3 {
		t.Errorf("Pairs() = %d, want 3", got)
	}
}

func TestPairGraphDeduplicatesWithinOrder(t *testing.T) {
	g := NewPairGraph()
	// Two line items for the same product must not inflate the pair count.
	g.AddOrder([]string{"brick", "brick", "mortar", ""})

	if got := g.Count("brick", "mortar"); got != 1 {
		t.Errorf("Count(brick, mortar) = %d, want 1", got)
	}
	if got := g.Count("brick", "brick"); got != 0 {
		t.Errorf("Count(brick, brick) = %d, want 0", got)
	}
	if neighbors := g.Neighbors(""); neighbors != nil {
		t.Errorf("Neighbors(\"\") = %v, want nil", neighbors)
	}
}

func TestPairGraphSingleItemOrder(t *testing.T) {
	g := NewPairGraph()
	g.AddOrder([]string{"cement"})

	if got := g.Pairs(); got != 0 {
		t.Errorf("Pairs() = %d, want 0 for a single-item order", got)
	}
	if neighbors := g.Neighbors("cement"); neighbors != nil {
		t.Errorf("Neighbors(cement) = %v, want nil", neighbors)
	}
}

func TestPairGraphNeighborsOrdering(t *testing.T) {
	g := NewPairGraph()
	for i := 0; i < 3; i++ {
		g.AddOrder([]string{"cement", "sand"})
	}
	g.AddOrder([]string{"cement", "gravel"})
	g.AddOrder([]string{"cement", "bricks"})

	neighbors := g.Neighbors("cement")
	if len(neighbors) != 3 {
		t.Fatalf("len(Neighbors) = %d, want 3", len(neighbors))
	}

	if neighbors[0].ProductID != "sand" || neighbors[0].Count != 3 {
		t.Errorf("top neighbor = %+v, want sand with count 3", neighbors[0])
	}
	// Tied counts order by id for determinism.
	if neighbors[1].ProductID != "bricks" || neighbors[2].ProductID != "gravel" {
		t.Errorf("tied neighbors = %s, %s, want bricks, gravel",
			neighbors[1].ProductID, neighbors[2].ProductID)
	}
}

func TestPairGraphUnknownProduct(t *testing.T) {
	g := NewPairGraph()
	g.AddOrder([]string{"a", "b"})

	if got := g.Count("a", "z"); got != 0 {
		t.Errorf("Count(a, z) = %d, want 0", got)
	}
	if neighbors := g.Neighbors("z"); neighbors != nil {
		t.Errorf("Neighbors(z) = %v, want nil", neighbors)
	}
}
