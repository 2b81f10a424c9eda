package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"curator-backend/domain/core/entities"
	"curator-backend/domain/core/valueobjects"
)

func graphNodes(ids ...string) []valueobjects.GraphNode {
	nodes := make([]valueobjects.GraphNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, valueobjects.GraphNode{ID: id, Label: id})
	}
	return nodes
}

func graphEdge(source, target string) valueobjects.GraphEdge {
	return valueobjects.GraphEdge{
		Source:           source,
		Target:           target,
		Similarity:       0.5,
		RelationshipType: entities.RelationSimilar,
	}
}

func TestCalculate_EmptyGraph(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	metrics := calc.Calculate(nil, nil)

	assert.Equal(t, 0, metrics.NodeCount)
	assert.Equal(t, 0, metrics.EdgeCount)
	assert.Equal(t, 0.0, metrics.Density)
	assert.Equal(t, 0.0, metrics.AvgDegree)
	assert.Equal(t, 0, metrics.MaxDegree)
	assert.Equal(t, 0.0, metrics.ClusteringCoefficient)
}

func TestCalculate_SingleNode(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	metrics := calc.Calculate(graphNodes("a"), nil)

	assert.Equal(t, 1, metrics.NodeCount)
	assert.Equal(t, 0.0, metrics.Density)
	assert.Equal(t, 0.0, metrics.AvgDegree)
	assert.Equal(t, 0.0, metrics.ClusteringCoefficient)
}

func TestCalculate_ThreeNodePath(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	metrics := calc.Calculate(
		graphNodes("a", "b", "c"),
		[]valueobjects.GraphEdge{graphEdge("a", "b"), graphEdge("b", "c")},
	)

	assert.Equal(t, 3, metrics.NodeCount)
	assert.Equal(t, 2, metrics.EdgeCount)
	assert.InDelta(t, 2.0/3.0, metrics.Density, 1e-9)
	assert.InDelta(t, 4.0/3.0, metrics.AvgDegree, 1e-9)
	assert.Equal(t, 2, metrics.MaxDegree)
	// b has degree 2 but its neighbors are not connected
	assert.Equal(t, 0.0, metrics.ClusteringCoefficient)
}

func TestCalculate_Triangle(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	metrics := calc.Calculate(
		graphNodes("a", "b", "c"),
		[]valueobjects.GraphEdge{graphEdge("a", "b"), graphEdge("b", "c"), graphEdge("c", "a")},
	)

	assert.Equal(t, 1.0, metrics.Density)
	assert.Equal(t, 2.0, metrics.AvgDegree)
	assert.Equal(t, 2, metrics.MaxDegree)
	assert.Equal(t, 1.0, metrics.ClusteringCoefficient)
}

func TestCalculate_TriangleWithTail(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	// Triangle a-b-c plus pendant d hanging off a
	metrics := calc.Calculate(
		graphNodes("a", "b", "c", "d"),
		[]valueobjects.GraphEdge{
			graphEdge("a", "b"),
			graphEdge("b", "c"),
			graphEdge("c", "a"),
			graphEdge("a", "d"),
		},
	)

	assert.Equal(t, 3, metrics.MaxDegree)
	// a: 1 closed of 3 possible pairs; b and c: fully closed; d: degree 1, excluded
	expected := (1.0/3.0 + 1.0 + 1.0) / 3.0
	assert.InDelta(t, expected, metrics.ClusteringCoefficient, 1e-9)
}

func TestCalculate_IgnoresMalformedEdges(t *testing.T) {
	calc := NewNetworkMetricsCalculator()

	metrics := calc.Calculate(
		graphNodes("a", "b"),
		[]valueobjects.GraphEdge{
			graphEdge("a", "b"),
			graphEdge("a", "a"),       // self-loop
			graphEdge("a", "missing"), // unknown endpoint
		},
	)

	// Edge count reflects the input, degree math ignores malformed entries
	assert.Equal(t, 3, metrics.EdgeCount)
	assert.Equal(t, 1, metrics.MaxDegree)
}
