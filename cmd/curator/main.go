// Package main implements the curator command line interface for the
// content relationship engine: ad-hoc related-content queries, graph
// builds, network statistics and batch relationship discovery against
// the configured stores.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"curator-backend/application/services"
	"curator-backend/infrastructure/config"
	"curator-backend/infrastructure/di"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "curator: %v\n", err)
		os.Exit(1)
	}
}

func usage() string {
	return strings.TrimSpace(`
usage: curator [-config path] <command> [flags]

commands:
  related  -id <content-id> [-threshold f] [-limit n]        find related content
  compare  -id <content-id> -other <content-id>              score one pair
  graph    -id <content-id> [-depth n] [-max-nodes n]        build a relationship graph
  stats    [-ids <id,id,...>]                                network metrics (all processed items when -ids is empty)
  batch    -ids <id,id,...> [-threshold f] [-batch-size n]   batch relationship discovery
  watch    -ids <id,id,...> [-interval d]                    rerun batch discovery on an interval, reloading tunables on config changes
`)
}

func run(args []string) error {
	global := flag.NewFlagSet("curator", flag.ContinueOnError)
	configPath := global.String("config", "", "path to YAML config file")
	global.Usage = func() { fmt.Fprintln(os.Stderr, usage()) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() < 1 {
		return fmt.Errorf("missing command\n%s", usage())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer container.Logger.Sync()

	command, rest := global.Arg(0), global.Args()[1:]
	switch command {
	case "related":
		return runRelated(ctx, container, cfg, rest)
	case "compare":
		return runCompare(ctx, container, rest)
	case "graph":
		return runGraph(ctx, container, cfg, rest)
	case "stats":
		return runStats(ctx, container, rest)
	case "batch":
		return runBatch(ctx, container, cfg, rest)
	case "watch":
		return runWatch(ctx, container, cfg, *configPath, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage())
	}
}

func runRelated(ctx context.Context, container *di.Container, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("related", flag.ContinueOnError)
	id := fs.String("id", "", "source content id")
	threshold := fs.Float64("threshold", cfg.Engine.SimilarityThreshold, "minimum similarity score")
	limit := fs.Int("limit", cfg.Engine.ResultLimit, "maximum results")
	includeMeta := fs.Bool("metadata", true, "enrich candidates with metadata")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("related: -id is required")
	}

	results, err := container.Finder.FindRelated(ctx, *id, services.FindOptions{
		Threshold:       *threshold,
		Limit:           *limit,
		IncludeMetadata: *includeMeta,
	})
	if err != nil {
		return err
	}
	return printJSON(results)
}

func runCompare(ctx context.Context, container *di.Container, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	id := fs.String("id", "", "first content id")
	other := fs.String("other", "", "second content id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *other == "" {
		return fmt.Errorf("compare: -id and -other are required")
	}

	result, err := container.Finder.CompareContent(ctx, *id, *other)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runGraph(ctx context.Context, container *di.Container, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	id := fs.String("id", "", "root content id")
	depth := fs.Int("depth", cfg.Engine.GraphMaxDepth, "maximum traversal depth")
	maxNodes := fs.Int("max-nodes", cfg.Engine.GraphMaxNodes, "maximum graph size")
	withMetrics := fs.Bool("metrics", true, "compute network metrics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("graph: -id is required")
	}

	graph, err := container.GraphBuilder.BuildGraph(ctx, *id, services.GraphOptions{
		MaxDepth:       *depth,
		MaxNodes:       *maxNodes,
		IncludeMetrics: *withMetrics,
	})
	if err != nil {
		return err
	}
	return printJSON(graph)
}

func runStats(ctx context.Context, container *di.Container, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma separated content ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := container.GraphBuilder.Statistics(ctx, splitIDs(*ids))
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func runBatch(ctx context.Context, container *di.Container, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma separated content ids")
	threshold := fs.Float64("threshold", cfg.Engine.SimilarityThreshold, "minimum similarity score")
	limit := fs.Int("limit", cfg.Engine.ResultLimit, "maximum links per item")
	batchSize := fs.Int("batch-size", cfg.Engine.BatchSize, "items processed per chunk")
	update := fs.Bool("update", true, "persist discovered links")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contentIDs := splitIDs(*ids)
	if len(contentIDs) == 0 {
		return fmt.Errorf("batch: -ids is required")
	}

	container.Logger.Info("starting batch run",
		zap.Int("items", len(contentIDs)),
		zap.Bool("update_metadata", *update),
	)

	result, err := container.Batch.Process(ctx, contentIDs, services.BatchOptions{
		Threshold:      *threshold,
		Limit:          *limit,
		BatchSize:      *batchSize,
		UpdateMetadata: *update,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

// runWatch reruns batch discovery on an interval for long-lived curation,
// picking up engine tunable changes from the config file without a restart.
// A retune also triggers an immediate run so operators see the new
// thresholds without waiting out the interval.
func runWatch(ctx context.Context, container *di.Container, cfg *config.Config, configPath string, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma separated content ids")
	interval := fs.Duration("interval", 5*time.Minute, "time between batch runs")
	update := fs.Bool("update", true, "persist discovered links")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contentIDs := splitIDs(*ids)
	if len(contentIDs) == 0 {
		return fmt.Errorf("watch: -ids is required")
	}
	if configPath == "" {
		return fmt.Errorf("watch: -config is required")
	}

	watcher, err := config.NewWatcher(configPath, cfg.Engine, container.Logger)
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Stop()

	retuned := make(chan struct{}, 1)
	watcher.OnChange(func(config.EngineConfig) {
		select {
		case retuned <- struct{}{}:
		default:
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		engine := watcher.Current()
		result, err := container.Batch.Process(ctx, contentIDs, services.BatchOptions{
			Threshold:      engine.SimilarityThreshold,
			Limit:          engine.ResultLimit,
			BatchSize:      engine.BatchSize,
			UpdateMetadata: *update,
		})
		if err != nil {
			container.Logger.Error("batch run failed", zap.Error(err))
		} else {
			container.Logger.Info("batch run finished",
				zap.String("run_id", result.RunID),
				zap.Int("processed", result.Processed),
				zap.Int("failed", result.Failed),
			)
		}

		select {
		case <-sigCh:
			container.Logger.Info("shutting down watch loop")
			return nil
		case <-retuned:
		case <-ticker.C:
		}
	}
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
