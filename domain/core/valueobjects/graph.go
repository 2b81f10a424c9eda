package valueobjects

import (
	"curator-backend/domain/core/entities"
)

// GraphNode is one node in a visualization graph
type GraphNode struct {
	ID          string               `json:"id"`
	Label       string               `json:"label"`
	Size        float64              `json:"size"`
	Color       string               `json:"color"`
	ContentType entities.ContentType `json:"content_type"`
}

// GraphEdge is one undirected edge in a visualization graph.
// Source/Target ordering carries no meaning.
type GraphEdge struct {
	Source           string                    `json:"source"`
	Target           string                    `json:"target"`
	Similarity       float64                   `json:"similarity"`
	RelationshipType entities.RelationshipType `json:"relationship_type"`
}

// NetworkMetrics holds aggregate statistics over a node/edge set
type NetworkMetrics struct {
	NodeCount             int     `json:"node_count"`
	EdgeCount             int     `json:"edge_count"`
	Density               float64 `json:"density"`
	AvgDegree             float64 `json:"avg_degree"`
	MaxDegree             int     `json:"max_degree"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
}
