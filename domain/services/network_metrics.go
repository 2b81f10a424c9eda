package services

import (
	"curator-backend/domain/core/valueobjects"
)

// NetworkMetricsCalculator computes aggregate statistics over a node/edge set.
// Pure domain service: no I/O, safe for concurrent use.
type NetworkMetricsCalculator struct{}

// NewNetworkMetricsCalculator creates a new metrics calculator
func NewNetworkMetricsCalculator() *NetworkMetricsCalculator {
	return &NetworkMetricsCalculator{}
}

// Calculate computes node/edge counts, density, degree statistics and the
// average local clustering coefficient for an undirected graph.
//
//	density   = 2E / (N·(N-1))  for N > 1, else 0
//	avgDegree = 2E / N          for N > 0, else 0
//
// The clustering coefficient averages, over nodes with degree >= 2, the
// fraction of possible triangles through the node that are closed. It is
// 0 for empty and single-node graphs.
func (c *NetworkMetricsCalculator) Calculate(
	nodes []valueobjects.GraphNode,
	edges []valueobjects.GraphEdge,
) valueobjects.NetworkMetrics {
	metrics := valueobjects.NetworkMetrics{
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}

	if metrics.NodeCount == 0 {
		return metrics
	}

	n := float64(metrics.NodeCount)
	e := float64(metrics.EdgeCount)

	if metrics.NodeCount > 1 {
		metrics.Density = (2 * e) / (n * (n - 1))
	}
	metrics.AvgDegree = (2 * e) / n

	adjacency := buildAdjacency(nodes, edges)

	for _, neighbors := range adjacency {
		if len(neighbors) > metrics.MaxDegree {
			metrics.MaxDegree = len(neighbors)
		}
	}

	metrics.ClusteringCoefficient = c.clusteringCoefficient(adjacency)

	return metrics
}

// clusteringCoefficient averages local triangle closure over nodes of degree >= 2
func (c *NetworkMetricsCalculator) clusteringCoefficient(adjacency map[string]map[string]bool) float64 {
	var sum float64
	eligible := 0

	for _, neighbors := range adjacency {
		degree := len(neighbors)
		if degree < 2 {
			continue
		}

		neighborList := make([]string, 0, degree)
		for neighbor := range neighbors {
			neighborList = append(neighborList, neighbor)
		}

		closed := 0
		for i := 0; i < len(neighborList); i++ {
			for j := i + 1; j < len(neighborList); j++ {
				if adjacency[neighborList[i]][neighborList[j]] {
					closed++
				}
			}
		}

		possible := degree * (degree - 1) / 2
		sum += float64(closed) / float64(possible)
		eligible++
	}

	if eligible == 0 {
		return 0.0
	}
	return sum / float64(eligible)
}

// buildAdjacency creates an undirected adjacency map, ignoring self-loops
// and edges that reference unknown nodes
func buildAdjacency(
	nodes []valueobjects.GraphNode,
	edges []valueobjects.GraphEdge,
) map[string]map[string]bool {
	adjacency := make(map[string]map[string]bool, len(nodes))
	for _, node := range nodes {
		adjacency[node.ID] = make(map[string]bool)
	}

	for _, edge := range edges {
		if edge.Source == edge.Target {
			continue
		}
		src, sourceKnown := adjacency[edge.Source]
		dst, targetKnown := adjacency[edge.Target]
		if !sourceKnown || !targetKnown {
			continue
		}
		src[edge.Target] = true
		dst[edge.Source] = true
	}

	return adjacency
}
