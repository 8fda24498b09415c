package graph

import (
	"reflect"
	"testing"
)

func TestCriticalPath_LinearChain(t *testing.T) {
	g := Build([]NodeID{"A", "B", "C"}, []Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "B", Target: "C", Weight: 3},
	})

	p := g.CriticalPath()
	if !reflect.DeepEqual(p.Nodes, []NodeID{"A", "B", "C"}) {
		t.Errorf("Expected path [A B C], got %v", p.Nodes)
	}
	if p.TotalWeight != 5 {
		t.Errorf("Expected total weight 5, got %v", p.TotalWeight)
	}
}

func TestCriticalPath_GlobalMaximum(t *testing.T) {
	g := Build([]NodeID{"A", "B", "C", "D"}, []Edge{
		{Source: "A", Target: "B", Weight: 1},
		{Source: "B", Target: "D", Weight: 1},
		{Source: "A", Target: "C", Weight: 5},
		{Source: "C", Target: "D", Weight: 5},
	})

	p := g.CriticalPath()
	if !reflect.DeepEqual(p.Nodes, []NodeID{"A", "C", "D"}) {
		t.Errorf("Expected path [A C D], got %v", p.Nodes)
	}
	if p.TotalWeight != 10 {
		t.Errorf("Expected total weight 10, got %v", p.TotalWeight)
	}
}

func TestCriticalPath_NoEdges(t *testing.T) {
	g := Build([]NodeID{"A", "B"}, nil)

	p := g.CriticalPath()
	if len(p.Nodes) != 0 {
		t.Errorf("Expected empty path, got %v", p.Nodes)
	}
	if p.TotalWeight != 0 {
		t.Errorf("Expected zero weight, got %v", p.TotalWeight)
	}
}

func TestCriticalPath_SingleNode(t *testing.T) {
	g := Build([]NodeID{"A"}, nil)

	p := g.CriticalPath()
	if len(p.Nodes) != 0 || p.TotalWeight != 0 {
		t.Errorf("Expected empty result, got %v (weight %v)", p.Nodes, p.TotalWeight)
	}
}

func TestCriticalPath_TieBreaksLexicographically(t *testing.T) {
	// Two disjoint chains with equal weight. X->Y would win on insertion
	// order alone; the lexicographic rule must pick [A B].
	g := Build(nil, []Edge{
		{Source: "X", Target: "Y", Weight: 4},
		{Source: "A", Target: "B", Weight: 4},
	})

	p := g.CriticalPath()
	if !reflect.DeepEqual(p.Nodes, []NodeID{"A", "B"}) {
		t.Errorf("Expected tie-break to [A B], got %v", p.Nodes)
	}
}

func TestCriticalPath_DisconnectedComponents(t *testing.T) {
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: 1},
		{Source: "P", Target: "Q", Weight: 6},
		{Source: "Q", Target: "R", Weight: 6},
	})

	p := g.CriticalPath()
	if !reflect.DeepEqual(p.Nodes, []NodeID{"P", "Q", "R"}) {
		t.Errorf("Expected path [P Q R], got %v", p.Nodes)
	}
	if p.TotalWeight != 12 {
		t.Errorf("Expected total weight 12, got %v", p.TotalWeight)
	}
}

func TestCriticalPath_NegativeWeightsNotAssumedMonotonic(t *testing.T) {
	// An augmentor may shrink weights below zero. A negative prefix must not
	// be dragged along when starting fresh scores higher.
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: -5},
		{Source: "B", Target: "C", Weight: 4},
	})

	p := g.CriticalPath()
	if !reflect.DeepEqual(p.Nodes, []NodeID{"B", "C"}) {
		t.Errorf("Expected path [B C], got %v", p.Nodes)
	}
	if p.TotalWeight != 4 {
		t.Errorf("Expected total weight 4, got %v", p.TotalWeight)
	}
}

func TestCriticalPath_Idempotent(t *testing.T) {
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "A", Target: "C", Weight: 2},
		{Source: "B", Target: "D", Weight: 3},
		{Source: "C", Target: "D", Weight: 3},
	})

	first := g.CriticalPath()
	second := g.CriticalPath()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}
}
