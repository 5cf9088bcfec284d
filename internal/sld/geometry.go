// Package sld defines the automatic single-line-diagram layout produced by the
// layout engine. The layout is read-only input to everything in this module.
package sld

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/eykd/sldview/internal/canon"
)

// Point is a 2D position in diagram coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both components are finite numbers.
func (p Point) Finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Routing is the edge routing style. The layout engine owns the vocabulary;
// values outside these constants are carried through unchanged.
type Routing string

const (
	RoutingOrthogonal Routing = "orthogonal"
	RoutingStraight   Routing = "straight"
	RoutingSpline     Routing = "spline"
)

// NodeGeometry places one symbol.
type NodeGeometry struct {
	Position Point `json:"position"`
	Locked   bool  `json:"locked,omitempty"`
}

// EdgeGeometry routes one connection.
type EdgeGeometry struct {
	Bends   []Point `json:"bends"`
	Routing Routing `json:"routing,omitempty"`
}

// LabelGeometry places one label.
type LabelGeometry struct {
	Anchor *Point `json:"anchor,omitempty"`
	Offset *Point `json:"offset,omitempty"`
}

// Geometry is a complete layout keyed by entity id.
type Geometry struct {
	Nodes  map[string]NodeGeometry  `json:"nodes"`
	Edges  map[string]EdgeGeometry  `json:"edges"`
	Labels map[string]LabelGeometry `json:"labels,omitempty"`
}

// Clone returns a deep copy of g.
func Clone(g Geometry) Geometry {
	out := Geometry{}
	if g.Nodes != nil {
		out.Nodes = make(map[string]NodeGeometry, len(g.Nodes))
		for id, n := range g.Nodes {
			out.Nodes[id] = n
		}
	}
	if g.Edges != nil {
		out.Edges = make(map[string]EdgeGeometry, len(g.Edges))
		for id, e := range g.Edges {
			out.Edges[id] = EdgeGeometry{Bends: ClonePoints(e.Bends), Routing: e.Routing}
		}
	}
	if g.Labels != nil {
		out.Labels = make(map[string]LabelGeometry, len(g.Labels))
		for id, l := range g.Labels {
			out.Labels[id] = LabelGeometry{Anchor: clonePoint(l.Anchor), Offset: clonePoint(l.Offset)}
		}
	}
	return out
}

// ClonePoints copies a bend list, keeping nil as nil.
func ClonePoints(ps []Point) []Point {
	if ps == nil {
		return nil
	}
	return append(make([]Point, 0, len(ps)), ps...)
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// EntityIDs is the set of ids a layout currently defines.
type EntityIDs struct {
	Nodes  map[string]struct{}
	Edges  map[string]struct{}
	Labels map[string]struct{}
}

// IDsOf collects the entity ids defined by g.
func IDsOf(g Geometry) EntityIDs {
	return EntityIDs{
		Nodes:  keySet(g.Nodes),
		Edges:  keySet(g.Edges),
		Labels: keySet(g.Labels),
	}
}

// HasNode reports whether id is a current node.
func (ids EntityIDs) HasNode(id string) bool {
	_, ok := ids.Nodes[id]
	return ok
}

// HasEdge reports whether id is a current edge.
func (ids EntityIDs) HasEdge(id string) bool {
	_, ok := ids.Edges[id]
	return ok
}

// HasLabel reports whether id is a current label.
func (ids EntityIDs) HasLabel(id string) bool {
	_, ok := ids.Labels[id]
	return ok
}

func keySet[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}

// SortedKeys returns the keys of m in ordinal order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fingerprintNamespace scopes layout fingerprints so they cannot collide with
// other name-based UUIDs.
var fingerprintNamespace = uuid.MustParse("5d1c1b1e-7a3f-4c2e-9f0a-3b6e2d4c8a10")

// Fingerprint identifies one version of an automatic layout. Layouts with the
// same canonical encoding share a fingerprint regardless of map order.
func Fingerprint(g Geometry) string {
	return uuid.NewSHA1(fingerprintNamespace, []byte(canon.Serialize(g))).String()
}
