package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/incgraph/internal/cache"
	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/ierrors"
	"github.com/rohankatakam/incgraph/internal/label"
	"github.com/rohankatakam/incgraph/internal/layout"
	"github.com/rohankatakam/incgraph/internal/loader"
	"github.com/rohankatakam/incgraph/internal/overlap"
	"github.com/rohankatakam/incgraph/internal/render"
	"github.com/rohankatakam/incgraph/internal/subgraph"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "load, build, lay out, and render an incident subgraph",
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()

	f.StringVar(&cfgOverrides.inputPath, "input", "", "path to the adjacency or finding JSONL feed")
	f.StringVar(&cfgOverrides.inputKind, "kind", "", "input kind: auto, adjacency, finding")
	f.IntVar(&cfgOverrides.findingIndex, "finding-index", -2, "select a single finding by index (-1 = all, default from config)")

	f.StringSliceVar(&cfgOverrides.edgeTypes, "edge-type", nil, "restrict to these edge types")
	f.StringSliceVar(&cfgOverrides.vertexTypes, "vertex-type", nil, "restrict to these vertex kinds")
	f.StringSliceVar(&cfgOverrides.throughEdge, "through-edge", nil, "anchor paths-through traversal on these edge types")
	f.StringVar(&cfgOverrides.match, "match", "", "keep only edges touching a vertex ID containing this substring")
	f.IntVar(&cfgOverrides.limit, "limit", -1, "maximum edges to admit (default from config)")
	f.StringVar(&cfgOverrides.startTS, "start-ts", "", "ISO-8601 seed admission start time")
	f.BoolVar(&cfgOverrides.ioaOnly, "ioa-only", false, "prune the subgraph to what's structurally connected to an IOA-tagged edge")

	f.StringVar(&cfgOverrides.focus, "focus", "", "comma-free single seed vertex ID")
	f.StringVar(&cfgOverrides.procName, "proc-name", "", "seed from every proc vertex matching this substring")

	f.StringVar(&cfgOverrides.layoutKind, "layout", "", "layout algorithm: force, circle, layered, tree, time")
	f.IntVar(&cfgOverrides.iterations, "iterations", -1, "force-layout iteration count (default from config)")
	f.Int64Var(&cfgOverrides.seed, "seed", 0, "deterministic layout seed")
	f.BoolVar(&cfgOverrides.seedSet, "seed-set", false, "internal: marks --seed as explicitly provided")
	_ = renderCmd.Flags().MarkHidden("seed-set")

	f.StringVar(&cfgOverrides.renderMode, "render", "", "render mode: none, svg, png, simple-svg")
	f.StringVar(&cfgOverrides.dotOut, "dot-out", "", "DOT output path (always written)")
	f.StringVar(&cfgOverrides.jsonOut, "json-out", "", "structured JSON output path")
	f.StringVar(&cfgOverrides.imageOut, "image-out", "", "rendered image output path")
	f.StringVar(&cfgOverrides.edgeLabel, "edge-label", "", "edge label mode: none, hover, text")
	f.Float64Var(&cfgOverrides.edgeCurve, "edge-curve", -1, "edge curvature magnitude (default from config)")
	f.BoolVar(&cfgOverrides.legend, "legend", true, "draw the legend box")

	f.BoolVar(&cfgOverrides.cacheEnabled, "cache", false, "enable the render cache")
}

// overrides carries cobra flag values before they're merged onto cfg;
// a flag left at its zero/sentinel value means "use the config default".
type overrides struct {
	inputPath    string
	inputKind    string
	findingIndex int

	edgeTypes   []string
	vertexTypes []string
	throughEdge []string
	match       string
	limit       int
	startTS     string
	ioaOnly     bool

	focus    string
	procName string

	layoutKind string
	iterations int
	seed       int64
	seedSet    bool

	renderMode   string
	dotOut       string
	jsonOut      string
	imageOut     string
	edgeLabel    string
	edgeCurve    float64
	legend       bool
	cacheEnabled bool
}

var cfgOverrides overrides

func runRender(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("seed") {
		cfgOverrides.seedSet = true
	}
	applyOverrides(cfg, &cfgOverrides)

	if cfg.Input.Path == "" {
		return ierrors.InputMissingf("no input file given: pass --input or set input.path in config")
	}

	var startBound timekey.Key
	if cfg.Filter.StartTS != "" {
		parsed := timekey.ParseTS(cfg.Filter.StartTS)
		if parsed == nil {
			return ierrors.InvalidStartTimef("could not parse --start-ts %q as ISO-8601 or epoch seconds", cfg.Filter.StartTS)
		}
		startBound = timekey.Key{TS: parsed}
	}

	filters := loader.FiltersFromConfig(cfg.Filter)
	res, err := loader.Load(cfg.Input, filters, logger)
	if err != nil {
		return err
	}
	if len(res.Edges) == 0 {
		return ierrors.EmptyResultf("no edges survived loading and filtering")
	}

	// Paths-through and seed BFS are independent, separately-optional
	// pipeline stages (spec §2's data flow): a --through-edge anchor
	// narrows the loaded edges first, and only then does an optional
	// seed BFS narrow further. Neither stage requires the other.
	sg := subgraph.FromEdges(res.Edges)
	if len(cfg.Filter.ThroughEdge) > 0 {
		anchors := make(map[string]bool, len(cfg.Filter.ThroughEdge))
		for _, t := range cfg.Filter.ThroughEdge {
			anchors[t] = true
		}
		sg = subgraph.PathsThrough(subgraph.BuildIndex(res.Edges), anchors)
		if len(sg.Edges) == 0 {
			return ierrors.EmptyResultf("no edges survived the paths-through filter")
		}
	}

	seeds, err := resolveSeeds(cfg, res)
	if err != nil {
		return err
	}
	if len(seeds) > 0 {
		sg = subgraph.BuildSince(subgraph.BuildIndex(sg.Edges), seeds, startBound)
		if len(sg.Edges) == 0 {
			return ierrors.EmptyResultf("seed-anchored subgraph is empty")
		}
	}

	if cfg.Filter.IOAOnly {
		pruned := subgraph.PruneToIOA(subgraph.BuildIndex(sg.Edges), sg.Edges)
		if len(pruned.Edges) == 0 {
			return ierrors.EmptyResultf("no edge in the seed-anchored subgraph carries an IOA tag")
		}
		sg = pruned
	}

	nodeIDs := layout.SortedNodes(sg.Nodes)
	sizes := make(map[string][2]float64, len(nodeIDs))
	for _, id := range nodeIDs {
		lbl := label.Label(id, res.Meta[id])
		w, h := label.Size(lbl)
		sizes[id] = [2]float64{w, h}
	}

	layoutResult := layout.Run(layout.Input{
		Nodes:  nodeIDs,
		Edges:  sg.Edges,
		Sizes:  sizes,
		Config: cfg.Layout,
	})

	overlap.Separate(layoutResult.Positions, sizes, cfg.Layout.NodePadding)
	layoutResult.Width, layoutResult.Height = overlap.Normalize(layoutResult.Positions, sizes, 40)

	graph := render.Build(nodeIDs, sg.Edges, res.Meta, layoutResult, sizes, cfg.Render, cfg.Layout)

	return writeOutputs(graph)
}

func resolveSeeds(cfg *config.Config, res *loader.Result) ([]string, error) {
	if cfg.Seed.Focus != "" {
		return []string{cfg.Seed.Focus}, nil
	}
	if cfg.Seed.ProcName != "" {
		return subgraph.SeedsByProcName(res.Nodes, res.Meta, cfg.Seed.ProcName), nil
	}
	if cfg.Input.FindingPath != "" {
		return loader.LoadFindingRoots(cfg.Input.FindingPath, cfg.Input.FindingIndex)
	}
	return nil, nil
}

func writeOutputs(graph *render.Graph) error {
	dotBytes, err := render.DOTSink{}.Render(graph)
	if err != nil {
		return err
	}
	if cfg.Render.Dot != "" {
		if err := os.WriteFile(cfg.Render.Dot, dotBytes, 0o644); err != nil {
			return ierrors.Wrap(err, ierrors.EmptyResult, "write DOT output")
		}
	}

	if cfg.Render.JSONOut != "" {
		jsonBytes, err := render.JSONSink{}.Render(graph)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Render.JSONOut, jsonBytes, 0o644); err != nil {
			return ierrors.Wrap(err, ierrors.EmptyResult, "write JSON output")
		}
	}

	switch cfg.Render.Mode {
	case config.RenderNone:
		return nil
	case config.RenderSimpleSVG:
		return writeSimpleSVG(graph)
	case config.RenderSVG:
		return writeExternalOrFallback(dotBytes, graph, "svg")
	case config.RenderPNG:
		return writeExternal(dotBytes, "png")
	default:
		return nil
	}
}

func writeSimpleSVG(graph *render.Graph) error {
	out, err := renderedImageBytes("simple-svg", func() ([]byte, error) {
		return render.SimpleSVGSink{}.Render(graph)
	})
	if err != nil {
		return err
	}
	return os.WriteFile(imageOutPath(), out, 0o644)
}

func writeExternalOrFallback(dotBytes []byte, graph *render.Graph, format string) error {
	out, err := renderedImageBytes(format, func() ([]byte, error) {
		return (render.ExternalDOTRenderer{}).Render(dotBytes, format)
	})
	if err != nil {
		if e, ok := err.(*ierrors.Error); ok && e.Kind == ierrors.ExternalRendererMissing {
			logger.Warn("graphviz `dot` not found; falling back to the built-in simple-SVG renderer")
			return writeSimpleSVG(graph)
		}
		return err
	}
	return os.WriteFile(imageOutPath(), out, 0o644)
}

func writeExternal(dotBytes []byte, format string) error {
	out, err := renderedImageBytes(format, func() ([]byte, error) {
		return (render.ExternalDOTRenderer{}).Render(dotBytes, format)
	})
	if err != nil {
		return err
	}
	return os.WriteFile(imageOutPath(), out, 0o644)
}

// renderedImageBytes wraps an expensive render step (external dot
// rasterization, or the simple-SVG vector build) with the opt-in
// cache: a hit returns the previously rendered bytes without calling
// produce at all, and a miss stores produce's result under a key
// derived from the input feed's identity plus every parameter that
// changes the picture.
func renderedImageBytes(format string, produce func() ([]byte, error)) ([]byte, error) {
	if !cfg.Cache.Enabled {
		return produce()
	}

	mgr, err := cache.New(cfg.Cache.Directory)
	if err != nil {
		logger.WithError(err).Warn("cache unavailable, rendering without it")
		return produce()
	}

	params := fmt.Sprintf("format=%s,input=%+v,filter=%+v,seed=%+v,layout=%+v,render=%+v",
		format, cfg.Input, cfg.Filter, cfg.Seed, cfg.Layout, cfg.Render)
	key, err := cache.Key(cfg.Input.Path, params)
	if err != nil {
		return produce()
	}

	if payload, ok := mgr.Get(key); ok {
		logger.WithField("key", key).Debug("render cache hit")
		return payload, nil
	}

	out, err := produce()
	if err != nil {
		return nil, err
	}
	if err := mgr.Put(key, params, out); err != nil {
		logger.WithError(err).Warn("failed to write render cache entry")
	}
	return out, nil
}

func imageOutPath() string {
	if cfg.Render.Image != "" {
		return cfg.Render.Image
	}
	ext := string(cfg.Render.Mode)
	if cfg.Render.Mode == config.RenderSimpleSVG {
		ext = "svg"
	}
	return "output/adjacency." + ext
}

func applyOverrides(cfg *config.Config, o *overrides) {
	if o.inputPath != "" {
		cfg.Input.Path = o.inputPath
	}
	if o.inputKind != "" {
		cfg.Input.Kind = config.InputKind(o.inputKind)
	}
	if o.findingIndex != -2 {
		cfg.Input.FindingIndex = o.findingIndex
	}

	if len(o.edgeTypes) > 0 {
		cfg.Filter.EdgeTypes = o.edgeTypes
	}
	if len(o.vertexTypes) > 0 {
		cfg.Filter.VertexTypes = o.vertexTypes
	}
	if len(o.throughEdge) > 0 {
		cfg.Filter.ThroughEdge = o.throughEdge
	}
	if o.match != "" {
		cfg.Filter.Match = o.match
	}
	if o.limit != -1 {
		cfg.Filter.Limit = o.limit
	}
	if o.startTS != "" {
		cfg.Filter.StartTS = o.startTS
	}
	if o.ioaOnly {
		cfg.Filter.IOAOnly = true
	}

	if o.focus != "" {
		cfg.Seed.Focus = o.focus
	}
	if o.procName != "" {
		cfg.Seed.ProcName = o.procName
	}

	if o.layoutKind != "" {
		cfg.Layout.Layout = config.LayoutKind(o.layoutKind)
	}
	if o.iterations != -1 {
		cfg.Layout.Iterations = o.iterations
	}
	if o.seedSet {
		cfg.Layout.Seed = o.seed
	}

	if o.renderMode != "" {
		cfg.Render.Mode = config.RenderMode(o.renderMode)
	}
	if o.dotOut != "" {
		cfg.Render.Dot = o.dotOut
	}
	if o.jsonOut != "" {
		cfg.Render.JSONOut = o.jsonOut
	}
	if o.imageOut != "" {
		cfg.Render.Image = o.imageOut
	}
	if o.edgeLabel != "" {
		cfg.Render.EdgeLabel = config.EdgeLabelMode(o.edgeLabel)
	}
	if o.edgeCurve != -1 {
		cfg.Render.EdgeCurve = o.edgeCurve
	}
	if !o.legend {
		cfg.Render.Legend = false
	}
	if o.cacheEnabled {
		cfg.Cache.Enabled = true
	}
}
