// Package loader implements spec §4.1: detecting whether a JSONL feed
// is an adjacency stream or a findings stream, the two-pass adjacency
// load with its ordered filter pipeline, and finding-sequence
// expansion into synthetic edges.
package loader

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/ierrors"
	"github.com/rohankatakam/incgraph/internal/logging"
	"github.com/rohankatakam/incgraph/internal/model"
	"github.com/rohankatakam/incgraph/internal/timekey"
)

// rawRow is the on-the-wire shape of one JSONL line, covering both
// adjacency records (vertex/edge) and finding records (sequence).
type rawRow struct {
	RecordType string         `json:"record_type"`
	VertexID   string         `json:"vertex_id"`
	AdjacentID string         `json:"adjacent_id"`
	Type       string         `json:"type"`
	TS         any            `json:"ts"`
	RecordID   any            `json:"record_id"`
	EventID    any            `json:"event_id"`
	Data       map[string]any `json:"data"`
	IOATags    []model.IOATag `json:"ioa_tags"`

	// Finding-record fields.
	Root     string        `json:"root"`
	RuleID   any           `json:"rule_id"`
	Sequence []findingItem `json:"sequence"`
}

type findingItem struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Type     string `json:"type"`
	TS       any    `json:"ts"`
	RecordID any    `json:"record_id"`
	Name     string `json:"name"`
}

// Filters bundles the load-time filter parameters (spec §4.1, steps 1-3 & 7).
type Filters struct {
	Match                 string
	EdgeTypes              map[string]bool
	AllowedKinds           map[string]bool
	Limit                  int
	SystemProcessPrefixes  []string
}

// FiltersFromConfig builds Filters from a config.FilterConfig,
// applying the "file implies path" containment rule from spec §4.1
// step 3 and spec main(): "when file is in the allowed set, path is
// implicitly allowed".
func FiltersFromConfig(fc config.FilterConfig) Filters {
	edgeTypes := toSet(fc.EdgeTypes)
	allowed := toSet(fc.VertexTypes)
	if allowed[string(model.KindFile)] {
		allowed[string(model.KindPath)] = true
	}
	return Filters{
		Match:                 fc.Match,
		EdgeTypes:             edgeTypes,
		AllowedKinds:          allowed,
		Limit:                 fc.Limit,
		SystemProcessPrefixes: fc.SystemProcessPrefixes,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			set[it] = true
		}
	}
	return set
}

// Result is the outcome of a load: the discovered node set, the
// filtered edge list in load order, and enriched vertex metadata.
type Result struct {
	Nodes map[string]bool
	Edges []model.Edge
	Meta  map[string]*model.VertexMeta
}

// DetectKind scans path line-by-line and classifies it as adjacency or
// finding input, per spec §4.1: a record carrying record_type in
// {vertex,edge} implies adjacency; a record carrying a sequence array
// implies finding. Defaults to adjacency if neither is observed.
func DetectKind(path string) (config.InputKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ierrors.Wrap(err, ierrors.InputMissing, "open input for kind detection")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row rawRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			continue
		}
		if row.RecordType == "vertex" || row.RecordType == "edge" {
			return config.KindAdjacency, nil
		}
		if row.Sequence != nil {
			return config.KindFinding, nil
		}
	}
	return config.KindAdjacency, nil
}

// Load dispatches to the adjacency or finding loader per cfg, resolving
// "auto" via DetectKind first.
func Load(cfg config.InputConfig, filters Filters, logger *logrus.Logger) (*Result, error) {
	logger = logging.OrDiscard(logger)

	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, ierrors.Newf(ierrors.InputMissing, "input not found: %s", cfg.Path)
	}

	kind := cfg.Kind
	if kind == "" || kind == config.KindAuto {
		detected, err := DetectKind(cfg.Path)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	if kind == config.KindFinding {
		return loadFromFindings(cfg.Path, filters, cfg.FindingIndex, logger)
	}
	return loadFromAdjacency(cfg.Path, filters, logger)
}

func loadFromAdjacency(path string, filters Filters, logger *logrus.Logger) (*Result, error) {
	meta := make(map[string]*model.VertexMeta)

	// Pass 1: vertex records.
	if err := forEachLine(path, logger, func(row *rawRow) {
		if row.RecordType == "vertex" && row.VertexID != "" {
			meta[row.VertexID] = &model.VertexMeta{ID: row.VertexID, Data: row.Data}
		}
	}); err != nil {
		return nil, err
	}

	nodes := make(map[string]bool)
	var edges []model.Edge
	seenKeys := make(map[model.EdgeKey]bool)

	skipped := 0
	err := forEachLine(path, logger, func(row *rawRow) {
		if row.RecordType != "edge" || row.VertexID == "" || row.AdjacentID == "" {
			return
		}
		if filters.Limit > 0 && len(edges) >= filters.Limit {
			return
		}

		if filters.Match != "" && !strings.Contains(row.VertexID, filters.Match) && !strings.Contains(row.AdjacentID, filters.Match) {
			return
		}
		if len(filters.EdgeTypes) > 0 && !filters.EdgeTypes[row.Type] {
			return
		}
		if len(filters.AllowedKinds) > 0 {
			if !filters.AllowedKinds[string(model.VertexKind(row.VertexID))] || !filters.AllowedKinds[string(model.VertexKind(row.AdjacentID))] {
				return
			}
		}

		maybeFillProcMeta(meta, row.VertexID, row)
		maybeFillProcMeta(meta, row.AdjacentID, row)
		maybeFillProcMetaFromImageEdge(meta, row)

		if shouldSkipFileEdge(row.VertexID, row.AdjacentID, meta, filters.SystemProcessPrefixes) {
			skipped++
			return
		}

		edge := toEdge(row)
		key := edge.Key()
		if seenKeys[key] {
			return
		}
		seenKeys[key] = true

		nodes[row.VertexID] = true
		nodes[row.AdjacentID] = true
		edges = append(edges, edge)
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"edges": len(edges), "nodes": len(nodes), "system_process_skipped": skipped,
	}).Debug("adjacency load complete")

	return &Result{Nodes: nodes, Edges: edges, Meta: meta}, nil
}

func loadFromFindings(path string, filters Filters, findingIndex int, logger *logrus.Logger) (*Result, error) {
	nodes := make(map[string]bool)
	var edges []model.Edge
	seenKeys := make(map[model.EdgeKey]bool)
	meta := make(map[string]*model.VertexMeta)

	findingIdx := -1
	limitReached := false
	err := forEachLine(path, logger, func(row *rawRow) {
		if limitReached || row.Sequence == nil {
			return
		}
		findingIdx++
		if findingIndex >= 0 && findingIdx != findingIndex {
			return
		}

		for _, fe := range findingToEdges(row) {
			if fe.From == "" || fe.To == "" {
				continue
			}
			if filters.Match != "" && !strings.Contains(fe.From, filters.Match) && !strings.Contains(fe.To, filters.Match) {
				continue
			}
			if len(filters.EdgeTypes) > 0 && !filters.EdgeTypes[fe.Type] {
				continue
			}
			if len(filters.AllowedKinds) > 0 {
				if !filters.AllowedKinds[string(model.VertexKind(fe.From))] || !filters.AllowedKinds[string(model.VertexKind(fe.To))] {
					continue
				}
			}

			key := fe.Key()
			if seenKeys[key] {
				continue
			}
			seenKeys[key] = true

			nodes[fe.From] = true
			nodes[fe.To] = true
			edges = append(edges, fe)

			if filters.Limit > 0 && len(edges) >= filters.Limit {
				limitReached = true
				break
			}
		}

		if findingIndex >= 0 && findingIdx == findingIndex {
			limitReached = true
		}
	})
	if err != nil {
		return nil, err
	}

	return &Result{Nodes: nodes, Edges: edges, Meta: meta}, nil
}

// LoadFindingRoots extracts seed roots from a findings JSONL file,
// spec §5.1's supplemented finding-index semantics: index < 0 means
// "every finding's root", index >= 0 selects exactly the Nth finding.
func LoadFindingRoots(path string, findingIndex int) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	var roots []string
	findingIdx := -1
	done := false
	err := forEachLine(path, logging.Discard(), func(row *rawRow) {
		if done || row.Sequence == nil {
			return
		}
		findingIdx++
		if findingIndex >= 0 && findingIdx != findingIndex {
			return
		}
		if row.Root != "" {
			roots = append(roots, row.Root)
		}
		if findingIndex >= 0 && findingIdx == findingIndex {
			done = true
		}
	})
	return roots, err
}

func findingToEdges(row *rawRow) []model.Edge {
	var edges []model.Edge
	for _, item := range row.Sequence {
		if item.From == "" || item.To == "" {
			continue
		}
		data := map[string]any{}
		if item.Name != "" {
			data["name"] = item.Name
		}
		typ := item.Type
		if typ == "" {
			typ = "edge"
		}
		edges = append(edges, model.Edge{
			From:     item.From,
			To:       item.To,
			Type:     typ,
			TS:       timekey.ParseTS(item.TS),
			RecordID: parseRecordID(item.RecordID),
			EventID:  row.RuleID,
			Data:     data,
		})
	}
	return edges
}

func toEdge(row *rawRow) model.Edge {
	return model.Edge{
		From:     row.VertexID,
		To:       row.AdjacentID,
		Type:     row.Type,
		TS:       timekey.ParseTS(row.TS),
		RecordID: parseRecordID(row.RecordID),
		EventID:  row.EventID,
		IOATags:  row.IOATags,
		Data:     row.Data,
	}
}

func parseRecordID(raw any) *int64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		i := int64(v)
		return &i
	case int64:
		return &v
	case int:
		i := int64(v)
		return &i
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

func forEachLine(path string, logger *logrus.Logger, fn func(row *rawRow)) error {
	f, err := os.Open(path)
	if err != nil {
		return ierrors.Wrap(err, ierrors.InputMissing, "open input")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row rawRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			logger.WithFields(logrus.Fields{"line": lineNo}).Debug("skipping malformed record")
			continue
		}
		fn(&row)
	}
	return scanner.Err()
}
