package overrides

import "github.com/eykd/sldview/internal/sld"

// ApplyMode returns the effective geometry for auto under doc.
//
// In automatic mode, or with a nil doc, the result equals auto. In manual and
// hybrid mode every override whose id exists in auto replaces the fields it
// sets: a node's position, an edge's bends and routing, a label's anchor and
// offset. Fields an override leaves unset keep their automatic values, and
// overrides without a matching automatic entity have no effect. Lock flags
// always come from auto.
//
// The result never aliases auto or doc.
func ApplyMode(auto sld.Geometry, doc *Document) sld.Geometry {
	out := sld.Clone(auto)
	if doc == nil {
		return out
	}

	switch doc.Mode {
	case ModeManual, ModeHybrid:
		applyOverrides(&out, doc)
	default:
		// ModeAutomatic, and modes this version does not know, keep auto.
	}
	return out
}

func applyOverrides(g *sld.Geometry, doc *Document) {
	for id, o := range doc.Nodes {
		n, ok := g.Nodes[id]
		if !ok {
			continue
		}
		n.Position = o.Position
		g.Nodes[id] = n
	}

	for id, o := range doc.Edges {
		e, ok := g.Edges[id]
		if !ok {
			continue
		}
		if o.Bends != nil {
			e.Bends = sld.ClonePoints(o.Bends)
		}
		if o.Routing != "" {
			e.Routing = o.Routing
		}
		g.Edges[id] = e
	}

	for id, o := range doc.Labels {
		l, ok := g.Labels[id]
		if !ok {
			continue
		}
		if o.Anchor != nil {
			a := *o.Anchor
			l.Anchor = &a
		}
		if o.Offset != nil {
			off := *o.Offset
			l.Offset = &off
		}
		g.Labels[id] = l
	}
}
