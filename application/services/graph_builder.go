package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"curator-backend/domain/core/entities"
	"curator-backend/domain/core/valueobjects"
	domainservices "curator-backend/domain/services"
	pkgerrors "curator-backend/pkg/errors"
	"curator-backend/pkg/observability"
)

// Node sizing: base size plus an engagement/quality bonus, clamped
const (
	nodeBaseSize = 10.0
	nodeMaxSize  = 50.0

	readWeight    = 0.05
	saveWeight    = 0.5
	shareWeight   = 0.3
	qualityWeight = 10.0
)

// contentTypeColors is the fixed palette keyed by content type
var contentTypeColors = map[entities.ContentType]string{
	entities.ContentTypeArticle: "#4C8BF5",
	entities.ContentTypePaper:   "#7E57C2",
	entities.ContentTypePodcast: "#26A69A",
	entities.ContentTypeVideo:   "#EF5350",
	entities.ContentTypeSocial:  "#FFA726",
}

// defaultNodeColor is used for unknown content types
const defaultNodeColor = "#9AA0A6"

// VisualizationGraph is the graph payload handed to a UI; it is never
// persisted by this engine
type VisualizationGraph struct {
	RootID  string                       `json:"root_id"`
	Nodes   []valueobjects.GraphNode     `json:"nodes"`
	Edges   []valueobjects.GraphEdge     `json:"edges"`
	Metrics *valueobjects.NetworkMetrics `json:"metrics,omitempty"`
}

// NetworkStatistics is the aggregate view over an explicit id set
type NetworkStatistics struct {
	ContentIDs []string                    `json:"content_ids"`
	Metrics    valueobjects.NetworkMetrics `json:"metrics"`
}

// GraphBuilder assembles a bounded relationship graph by breadth-first
// expansion from a root item, using the finder at every visited node
type GraphBuilder struct {
	finder  *RelatedContentFinder
	metrics *domainservices.NetworkMetricsCalculator
	logger  *zap.Logger
	obs     *observability.Collector
}

// NewGraphBuilder creates a new graph builder
func NewGraphBuilder(
	finder *RelatedContentFinder,
	metricsCalc *domainservices.NetworkMetricsCalculator,
	logger *zap.Logger,
	obs *observability.Collector,
) *GraphBuilder {
	if metricsCalc == nil {
		metricsCalc = domainservices.NewNetworkMetricsCalculator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GraphBuilder{
		finder:  finder,
		metrics: metricsCalc,
		logger:  logger,
		obs:     obs,
	}
}

// BuildGraph expands breadth-first from the root up to the depth and
// node-count bounds. The root node is always present, even with a node
// cap of 0 or 1. Edges between the same unordered pair are recorded
// once, keeping the highest similarity seen.
func (b *GraphBuilder) BuildGraph(
	ctx context.Context,
	rootID string,
	opts GraphOptions,
) (*VisualizationGraph, error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "graph.BuildGraph",
		attribute.String("content.id", rootID),
		attribute.Int("max_depth", opts.MaxDepth),
		attribute.Int("max_nodes", opts.MaxNodes),
	)

	graph, err := b.buildGraph(ctx, rootID, opts)

	observability.EndSpan(span, err)
	if b.obs != nil {
		b.obs.GraphDuration.Observe(time.Since(started).Seconds())
		if err == nil {
			b.obs.GraphsBuilt.Inc()
			b.obs.GraphNodes.Observe(float64(len(graph.Nodes)))
		}
	}
	return graph, err
}

func (b *GraphBuilder) buildGraph(
	ctx context.Context,
	rootID string,
	opts GraphOptions,
) (*VisualizationGraph, error) {
	if rootID == "" {
		return nil, pkgerrors.NewValidation("root content id is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	root, err := b.finder.GetEnriched(ctx, rootID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, fmt.Sprintf("fetch graph root %s", rootID))
	}

	// The root is always included, even when the cap is 0 or 1
	nodeCap := opts.MaxNodes
	if nodeCap < 1 {
		nodeCap = 1
	}

	nodes := []valueobjects.GraphNode{b.toGraphNode(root)}
	inGraph := map[string]bool{rootID: true}
	edges := make(map[string]valueobjects.GraphEdge)

	type frontierEntry struct {
		id    string
		depth int
	}
	queue := []frontierEntry{{id: rootID, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= opts.MaxDepth {
			continue
		}

		related, err := b.finder.FindRelated(ctx, current.id, DefaultFindOptions())
		if err != nil {
			if pkgerrors.IsUnavailable(err) {
				return nil, err
			}
			// Other expansion failures are isolated: the node stays in
			// the graph, its branch just stops growing
			b.logger.Warn("graph expansion failed for node",
				zap.String("content_id", current.id),
				zap.Error(err),
			)
			continue
		}

		for _, result := range related {
			targetID := result.Content.ID
			if targetID == current.id {
				continue
			}

			if !inGraph[targetID] {
				if len(nodes) >= nodeCap {
					continue
				}
				nodes = append(nodes, b.toGraphNode(result.Content))
				inGraph[targetID] = true
				queue = append(queue, frontierEntry{id: targetID, depth: current.depth + 1})
			}

			b.recordEdge(edges, current.id, targetID, result.Similarity, result.RelationshipType)
		}
	}

	graph := &VisualizationGraph{
		RootID: rootID,
		Nodes:  nodes,
		Edges:  sortedEdges(edges),
	}

	if opts.IncludeMetrics {
		metrics := b.metrics.Calculate(graph.Nodes, graph.Edges)
		graph.Metrics = &metrics
	}

	b.logger.Debug("graph built",
		zap.String("root_id", rootID),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
	)

	return graph, nil
}

// Statistics scores every pair in an id set against the default threshold
// and aggregates network metrics over the resulting graph. An empty id set
// means every processed item in the store. Items that fail to load are
// dropped from the set.
func (b *GraphBuilder) Statistics(ctx context.Context, contentIDs []string) (*NetworkStatistics, error) {
	ctx, span := observability.StartSpan(ctx, "graph.Statistics",
		attribute.Int("content.count", len(contentIDs)),
	)
	stats, err := b.statistics(ctx, contentIDs)
	observability.EndSpan(span, err)
	return stats, err
}

func (b *GraphBuilder) statistics(ctx context.Context, contentIDs []string) (*NetworkStatistics, error) {
	if len(contentIDs) == 0 {
		candidates, err := b.finder.contentStore.FindCandidates(ctx, "")
		if err != nil {
			return nil, pkgerrors.Wrap(err, "list processed content for statistics")
		}
		contentIDs = make([]string, 0, len(candidates))
		for _, item := range candidates {
			contentIDs = append(contentIDs, item.ID)
		}
	}

	enriched := make([]entities.EnrichedContent, 0, len(contentIDs))
	included := make([]string, 0, len(contentIDs))
	seen := make(map[string]bool, len(contentIDs))

	for _, id := range contentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		item, err := b.finder.GetEnriched(ctx, id)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				b.logger.Warn("skipping unknown content id in statistics",
					zap.String("content_id", id))
				continue
			}
			return nil, err
		}
		enriched = append(enriched, item)
		included = append(included, id)
	}

	nodes := make([]valueobjects.GraphNode, 0, len(enriched))
	for _, item := range enriched {
		nodes = append(nodes, b.toGraphNode(item))
	}

	edges := make(map[string]valueobjects.GraphEdge)
	for i := 0; i < len(enriched); i++ {
		for j := i + 1; j < len(enriched); j++ {
			similarity := b.finder.similarity.Calculate(enriched[i], enriched[j])
			if similarity < DefaultThreshold {
				continue
			}
			relType := b.finder.classifier.Classify(enriched[i], enriched[j], similarity)
			b.recordEdge(edges, enriched[i].ID, enriched[j].ID, similarity, relType)
		}
	}

	edgeList := sortedEdges(edges)

	return &NetworkStatistics{
		ContentIDs: included,
		Metrics:    b.metrics.Calculate(nodes, edgeList),
	}, nil
}

// recordEdge deduplicates by unordered pair, keeping the highest similarity
func (b *GraphBuilder) recordEdge(
	edges map[string]valueobjects.GraphEdge,
	source, target string,
	similarity float64,
	relType entities.RelationshipType,
) {
	if source == target {
		return
	}

	key := edgeKey(source, target)
	if existing, ok := edges[key]; ok && existing.Similarity >= similarity {
		return
	}

	edges[key] = valueobjects.GraphEdge{
		Source:           source,
		Target:           target,
		Similarity:       similarity,
		RelationshipType: relType,
	}
}

// toGraphNode derives the visual node for one enriched item
func (b *GraphBuilder) toGraphNode(content entities.EnrichedContent) valueobjects.GraphNode {
	bonus := float64(content.ReadCount)*readWeight +
		float64(content.SaveCount)*saveWeight +
		float64(content.ShareCount)*shareWeight +
		content.QualityScore*qualityWeight

	size := math.Min(nodeBaseSize+bonus, nodeMaxSize)

	color, ok := contentTypeColors[content.ContentType]
	if !ok {
		color = defaultNodeColor
	}

	return valueobjects.GraphNode{
		ID:          content.ID,
		Label:       content.Title,
		Size:        size,
		Color:       color,
		ContentType: content.ContentType,
	}
}

// edgeKey builds an order-independent map key for a node pair
func edgeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// sortedEdges returns map values in a deterministic order
func sortedEdges(edges map[string]valueobjects.GraphEdge) []valueobjects.GraphEdge {
	keys := make([]string, 0, len(edges))
	for key := range edges {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	list := make([]valueobjects.GraphEdge, 0, len(edges))
	for _, key := range keys {
		list = append(list, edges[key])
	}
	return list
}
