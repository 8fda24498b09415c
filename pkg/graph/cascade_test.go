package graph

import (
	"errors"
	"reflect"
	"testing"
)

func TestCascadeImpact_DescendantsAndDelay(t *testing.T) {
	g := Build([]NodeID{"A", "B", "C"}, []Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "B", Target: "C", Weight: 3},
	})

	impact, err := g.CascadeImpact("A")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	if !reflect.DeepEqual(impact.Affected, []NodeID{"B", "C"}) {
		t.Errorf("Expected affected [B C], got %v", impact.Affected)
	}
	if impact.TotalDelay != 5 {
		t.Errorf("Expected total delay 5, got %v", impact.TotalDelay)
	}
}

func TestCascadeImpact_MaxNotSum(t *testing.T) {
	// Diamond: two routes to D. Delay is the worst single chain, not the sum
	// over all routes.
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: 1},
		{Source: "A", Target: "C", Weight: 5},
		{Source: "B", Target: "D", Weight: 1},
		{Source: "C", Target: "D", Weight: 5},
	})

	impact, err := g.CascadeImpact("A")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	if impact.TotalDelay != 10 {
		t.Errorf("Expected worst-chain delay 10, got %v", impact.TotalDelay)
	}
	if len(impact.Affected) != 3 {
		t.Errorf("Expected 3 affected nodes, got %d", len(impact.Affected))
	}
}

func TestCascadeImpact_MissingSource(t *testing.T) {
	g := Build([]NodeID{"A"}, nil)

	_, err := g.CascadeImpact("Z")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Expected ErrNodeNotFound, got %v", err)
	}
}

func TestCascadeImpact_LeafNode(t *testing.T) {
	g := Build(nil, []Edge{{Source: "A", Target: "B", Weight: 2}})

	impact, err := g.CascadeImpact("B")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	if len(impact.Affected) != 0 {
		t.Errorf("Expected no descendants for leaf, got %v", impact.Affected)
	}
	if impact.TotalDelay != 0 {
		t.Errorf("Expected zero delay, got %v", impact.TotalDelay)
	}
}

func TestCascadeImpact_IgnoresUpstream(t *testing.T) {
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "B", Target: "C", Weight: 3},
	})

	impact, err := g.CascadeImpact("B")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	if !reflect.DeepEqual(impact.Affected, []NodeID{"C"}) {
		t.Errorf("Expected affected [C], got %v", impact.Affected)
	}
	if impact.TotalDelay != 3 {
		t.Errorf("Expected total delay 3, got %v", impact.TotalDelay)
	}
}

func TestCascadeImpact_Idempotent(t *testing.T) {
	g := Build(nil, []Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "A", Target: "C", Weight: 4},
		{Source: "C", Target: "D", Weight: 1},
	})

	first, err := g.CascadeImpact("A")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	second, err := g.CascadeImpact("A")
	if err != nil {
		t.Fatalf("CascadeImpact failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}
}
