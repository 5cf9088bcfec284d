// Package overrides models user-authored manual-layout corrections layered on
// top of an automatic sld.Geometry.
//
// A Document only carries deltas addressed by the automatic layout's entity
// ids. Evaluate checks a document against the current layout, ApplyMode merges
// it into effective geometry, and the codec persists it in canonical form.
package overrides

import "github.com/eykd/sldview/internal/sld"

// SchemaVersion is the only document format version this package reads.
const SchemaVersion = "1"

// Mode selects how overrides combine with the automatic layout.
type Mode string

const (
	// ModeAutomatic ignores the overrides entirely.
	ModeAutomatic Mode = "automatic"
	// ModeManual applies every override.
	ModeManual Mode = "manual"
	// ModeHybrid currently behaves exactly like ModeManual.
	ModeHybrid Mode = "hybrid"
)

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{ModeAutomatic, ModeManual, ModeHybrid}
}

// Document is the persisted override set.
type Document struct {
	SchemaVersion   string                   `json:"schemaVersion" validate:"required"`
	Mode            Mode                     `json:"mode" validate:"required,oneof=automatic manual hybrid"`
	BaseFingerprint string                   `json:"baseFingerprint"`
	CreatedAt       string                   `json:"createdAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	UpdatedAt       string                   `json:"updatedAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Nodes           map[string]NodeOverride  `json:"nodes"`
	Edges           map[string]EdgeOverride  `json:"edges"`
	Labels          map[string]LabelOverride `json:"labels,omitempty"`
}

// NodeOverride moves one node.
type NodeOverride struct {
	Position sld.Point `json:"position"`
	Locked   *bool     `json:"locked,omitempty"`
}

// EdgeOverride reroutes one edge. A nil Bends list leaves the automatic bends
// in place; an empty Routing leaves the automatic routing.
type EdgeOverride struct {
	Bends   []sld.Point `json:"bends"`
	Routing sld.Routing `json:"routing,omitempty"`
}

// LabelOverride moves one label. Nil components are left automatic.
type LabelOverride struct {
	Anchor *sld.Point `json:"anchor,omitempty"`
	Offset *sld.Point `json:"offset,omitempty"`
}

// EntityKind names the collection an override lives in.
type EntityKind string

const (
	KindNode  EntityKind = "node"
	KindEdge  EntityKind = "edge"
	KindLabel EntityKind = "label"
)

// Status is the outcome of Evaluate.
type Status string

const (
	// StatusValid means the document can be applied as is.
	StatusValid Status = "valid"
	// StatusStale means the document is sound but was authored against a
	// different automatic layout; callers should ask before applying it.
	StatusStale Status = "stale"
	// StatusConflict means the document references missing entities or holds
	// non-finite numbers. It takes precedence over StatusStale.
	StatusConflict Status = "conflict"
)

// IssueCode identifies one kind of override problem.
type IssueCode string

const (
	IssueMissingNode   IssueCode = "missing-node"
	IssueMissingEdge   IssueCode = "missing-edge"
	IssueMissingLabel  IssueCode = "missing-label"
	IssueInvalidNumber IssueCode = "invalid-number"
)

// Issue is one problem found in a document.
type Issue struct {
	Code    IssueCode  `json:"code"`
	Message string     `json:"message"`
	ID      string     `json:"id"`
	Kind    EntityKind `json:"kind"`
}

// StatusReport is computed on every evaluation and never persisted with the
// document.
type StatusReport struct {
	Status Status  `json:"status"`
	Issues []Issue `json:"issues"`
}
