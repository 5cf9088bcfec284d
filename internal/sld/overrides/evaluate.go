package overrides

import (
	"fmt"

	"github.com/eykd/sldview/internal/sld"
)

// Evaluate checks doc against the current layout and reports whether it can be
// applied. It is a pure function, performs no IO, and always returns a report.
//
// Every override is checked for a matching entity in ids and, if one exists,
// for finite coordinates. Collections are visited nodes, edges, labels, each in
// ordinal id order. Any issue makes the status conflict, whatever the
// fingerprints say; otherwise differing fingerprints make it stale.
func Evaluate(currentFingerprint, storedFingerprint string, doc Document, ids sld.EntityIDs) StatusReport {
	issues := []Issue{}

	for _, id := range sld.SortedKeys(doc.Nodes) {
		if !ids.HasNode(id) {
			issues = append(issues, missing(IssueMissingNode, KindNode, id))
			continue
		}
		if p := doc.Nodes[id].Position; !p.Finite() {
			issues = append(issues, invalid(KindNode, id, fmt.Sprintf("node %q position (%v, %v) is not finite", id, p.X, p.Y)))
		}
	}

	for _, id := range sld.SortedKeys(doc.Edges) {
		if !ids.HasEdge(id) {
			issues = append(issues, missing(IssueMissingEdge, KindEdge, id))
			continue
		}
		for i, p := range doc.Edges[id].Bends {
			if !p.Finite() {
				issues = append(issues, invalid(KindEdge, id, fmt.Sprintf("edge %q bend %d (%v, %v) is not finite", id, i, p.X, p.Y)))
			}
		}
	}

	for _, id := range sld.SortedKeys(doc.Labels) {
		if !ids.HasLabel(id) {
			issues = append(issues, missing(IssueMissingLabel, KindLabel, id))
			continue
		}
		l := doc.Labels[id]
		if l.Anchor != nil && !l.Anchor.Finite() {
			issues = append(issues, invalid(KindLabel, id, fmt.Sprintf("label %q anchor (%v, %v) is not finite", id, l.Anchor.X, l.Anchor.Y)))
		}
		if l.Offset != nil && !l.Offset.Finite() {
			issues = append(issues, invalid(KindLabel, id, fmt.Sprintf("label %q offset (%v, %v) is not finite", id, l.Offset.X, l.Offset.Y)))
		}
	}

	switch {
	case len(issues) > 0:
		return StatusReport{Status: StatusConflict, Issues: issues}
	case currentFingerprint != storedFingerprint:
		return StatusReport{Status: StatusStale, Issues: issues}
	default:
		return StatusReport{Status: StatusValid, Issues: issues}
	}
}

// Check evaluates doc against a current layout using the document's own base
// fingerprint.
func Check(doc Document, current sld.Geometry) StatusReport {
	return Evaluate(sld.Fingerprint(current), doc.BaseFingerprint, doc, sld.IDsOf(current))
}

func missing(code IssueCode, kind EntityKind, id string) Issue {
	return Issue{Code: code, Kind: kind, ID: id, Message: fmt.Sprintf("%s %q does not exist in the current layout", kind, id)}
}

func invalid(kind EntityKind, id, message string) Issue {
	return Issue{Code: IssueInvalidNumber, Kind: kind, ID: id, Message: message}
}
