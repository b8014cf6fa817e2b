// Package model defines the in-memory record model for the incident
// graph: vertex identity and metadata, typed edges, and IOA tags
// (spec §3). The composite "kind:payload" vertex-ID convention here
// mirrors the teacher's buildCompositeNodeID/parseCompositeNodeID
// pattern (internal/graph/builder.go) applied to this domain's
// kind set instead of <repo_id>:<type>:<id>.
package model

import "strings"

// Kind is the vertex kind encoded in the leading segment of a vertex ID.
type Kind string

const (
	KindProc    Kind = "proc"
	KindPath    Kind = "path"
	KindFile    Kind = "file"
	KindNet     Kind = "net"
	KindDomain  Kind = "domain"
	KindEvent   Kind = "event"
	KindUnknown Kind = "unknown"
)

// ParseVertexID splits a vertex ID of the form "kind:payload" into its
// kind and payload. An identifier with no ':' has KindUnknown and an
// empty payload, per spec §3.
func ParseVertexID(id string) (kind Kind, payload string) {
	idx := strings.IndexByte(id, ':')
	if idx < 0 {
		return KindUnknown, ""
	}
	return Kind(id[:idx]), id[idx+1:]
}

// VertexKind returns just the kind half of ParseVertexID, the common case.
func VertexKind(id string) Kind {
	k, _ := ParseVertexID(id)
	return k
}

// VertexMeta is the metadata record attached to a vertex ID, mirroring
// the loader's `{record_type:"vertex", vertex_id, data}` adjacency rows.
type VertexMeta struct {
	ID   string
	Data map[string]any
}

// DataString reads a string-valued attribute from Data, trying each
// key in order and returning the first present, non-empty value.
func (m *VertexMeta) DataString(keys ...string) string {
	if m == nil || m.Data == nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := m.Data[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// IOATag is an Indicator-of-Attack tag carried by an edge.
type IOATag struct {
	Name      string `json:"name"`
	Severity  string `json:"severity,omitempty"`
	Tactic    string `json:"tactic,omitempty"`
	Technique string `json:"technique,omitempty"`
}

// Edge is a directed typed record connecting two vertex IDs.
type Edge struct {
	From     string
	To       string
	Type     string
	TS       *float64 // epoch seconds; nil = unknown
	RecordID *int64   // nil = unknown
	EventID  any
	IOATags  []IOATag
	Data     map[string]any
}

// HasIOA reports whether the edge carries at least one IOA tag.
func (e *Edge) HasIOA() bool {
	return len(e.IOATags) > 0
}

// EdgeKey uniquely identifies an edge within a dataset, per spec §3's
// invariant "(from, to, type) uniquely identifies an edge".
type EdgeKey struct {
	From, To, Type string
}

// Key returns the edge's (from, to, type) identity key.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To, Type: e.Type}
}
