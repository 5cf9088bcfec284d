package overrides

import (
	"github.com/eykd/sldview/internal/sld"
)

// New returns an empty document in mode, authored against the layout with
// fingerprint, stamped with now.
func New(mode Mode, fingerprint, now string) Document {
	return Document{
		SchemaVersion:   SchemaVersion,
		Mode:            mode,
		BaseFingerprint: fingerprint,
		CreatedAt:       now,
		UpdatedAt:       now,
		Nodes:           map[string]NodeOverride{},
		Edges:           map[string]EdgeOverride{},
	}
}

// Clone returns a deep copy of doc.
func Clone(doc Document) Document {
	out := doc
	out.Nodes = make(map[string]NodeOverride, len(doc.Nodes))
	for id, n := range doc.Nodes {
		if n.Locked != nil {
			locked := *n.Locked
			n.Locked = &locked
		}
		out.Nodes[id] = n
	}
	out.Edges = make(map[string]EdgeOverride, len(doc.Edges))
	for id, e := range doc.Edges {
		out.Edges[id] = EdgeOverride{Bends: sld.ClonePoints(e.Bends), Routing: e.Routing}
	}
	if doc.Labels != nil {
		out.Labels = make(map[string]LabelOverride, len(doc.Labels))
		for id, l := range doc.Labels {
			out.Labels[id] = LabelOverride{Anchor: clonePoint(l.Anchor), Offset: clonePoint(l.Offset)}
		}
	}
	return out
}

func clonePoint(p *sld.Point) *sld.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// The With* and Without operations return an edited copy and leave doc
// untouched. Each stamps UpdatedAt with now.

// WithMode switches the document's mode.
func WithMode(doc Document, mode Mode, now string) Document {
	out := Clone(doc)
	out.Mode = mode
	out.UpdatedAt = now
	return out
}

// WithNodePosition pins node id at p, keeping any lock flag already set.
func WithNodePosition(doc Document, id string, p sld.Point, now string) Document {
	out := Clone(doc)
	n := out.Nodes[id]
	n.Position = p
	out.Nodes[id] = n
	out.UpdatedAt = now
	return out
}

// WithNodeLock sets the lock flag on an existing node override. It is a no-op
// apart from the copy when id has no override.
func WithNodeLock(doc Document, id string, locked bool, now string) Document {
	out := Clone(doc)
	n, ok := out.Nodes[id]
	if !ok {
		return out
	}
	n.Locked = &locked
	out.Nodes[id] = n
	out.UpdatedAt = now
	return out
}

// WithEdgeBends replaces the bend list of edge id.
func WithEdgeBends(doc Document, id string, bends []sld.Point, now string) Document {
	out := Clone(doc)
	e := out.Edges[id]
	e.Bends = sld.ClonePoints(bends)
	if e.Bends == nil {
		e.Bends = []sld.Point{}
	}
	out.Edges[id] = e
	out.UpdatedAt = now
	return out
}

// WithEdgeRouting sets the routing style of edge id.
func WithEdgeRouting(doc Document, id string, routing sld.Routing, now string) Document {
	out := Clone(doc)
	e := out.Edges[id]
	e.Routing = routing
	out.Edges[id] = e
	out.UpdatedAt = now
	return out
}

// WithLabel sets the anchor and/or offset of label id. Nil arguments keep the
// current override values.
func WithLabel(doc Document, id string, anchor, offset *sld.Point, now string) Document {
	out := Clone(doc)
	if out.Labels == nil {
		out.Labels = map[string]LabelOverride{}
	}
	l := out.Labels[id]
	if anchor != nil {
		l.Anchor = clonePoint(anchor)
	}
	if offset != nil {
		l.Offset = clonePoint(offset)
	}
	out.Labels[id] = l
	out.UpdatedAt = now
	return out
}

// Without removes the override for id from the kind collection.
func Without(doc Document, kind EntityKind, id string, now string) Document {
	out := Clone(doc)
	switch kind {
	case KindNode:
		delete(out.Nodes, id)
	case KindEdge:
		delete(out.Edges, id)
	case KindLabel:
		delete(out.Labels, id)
	default:
		return out
	}
	out.UpdatedAt = now
	return out
}

// Rebase reconciles doc with a new automatic layout: every override Evaluate
// would flag is dropped and the document adopts fingerprint. It returns the
// rebased document and the issues that caused drops, in Evaluate order.
func Rebase(doc Document, ids sld.EntityIDs, fingerprint, now string) (Document, []Issue) {
	report := Evaluate(fingerprint, fingerprint, doc, ids)
	out := Clone(doc)
	for _, issue := range report.Issues {
		switch issue.Kind {
		case KindNode:
			delete(out.Nodes, issue.ID)
		case KindEdge:
			delete(out.Edges, issue.ID)
		case KindLabel:
			delete(out.Labels, issue.ID)
		}
	}
	out.BaseFingerprint = fingerprint
	out.UpdatedAt = now
	return out, report.Issues
}
