// Package overlay projects backend analysis results onto rendered diagram symbols.
//
// The package has two halves. The adapters (Adapt, AdaptNodalVoltage, ...)
// turn an AnalysisResult into a canonical Payload. Resolve maps a Payload onto
// the symbols currently on the canvas and produces a StyleMap for the renderer.
// Nothing here computes engineering values or decides severities; both are
// supplied by the analysis backend.
package overlay

// VisualState is the coarse display state of one overlay element.
type VisualState string

const (
	// StateNormal marks an element with no finding or an informational one.
	StateNormal VisualState = "normal"
	// StateWarning marks an element with a warning-level finding.
	StateWarning VisualState = "warning"
	// StateCritical marks an element with a high-severity finding.
	StateCritical VisualState = "critical"
	// StateInactive marks an element that is out of service.
	StateInactive VisualState = "inactive"
)

// Element is one analysis-derived visual record, addressed by ElementRef.
type Element struct {
	ElementRef     string              `json:"element_ref"`
	ElementType    string              `json:"element_type"`
	VisualState    VisualState         `json:"visual_state"`
	ColorToken     ColorToken          `json:"color_token"`
	StrokeToken    StrokeToken         `json:"stroke_token"`
	AnimationToken AnimationToken      `json:"animation_token"`
	NumericBadges  map[string]*float64 `json:"numeric_badges"`
}

// LegendEntry explains one color token. Legends are authored by the producing
// analysis and never synthesized from the data.
type LegendEntry struct {
	ColorToken  ColorToken `json:"color_token"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
}

// Payload is the overlay for one analysis run. Elements are sorted by
// ElementRef in ordinal byte order when produced by an adapter. A payload is
// replaced wholesale when a new run is loaded, never patched.
type Payload struct {
	RunID        string        `json:"run_id"`
	AnalysisType string        `json:"analysis_type"`
	Elements     []Element     `json:"elements"`
	Legend       []LegendEntry `json:"legend"`
}

// BadgeStyle is the background/foreground/border class triple used to draw a
// visual-state badge.
type BadgeStyle struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Border     string `json:"border"`
}

// ResolvedStyle is the render-ready style for one matched element.
type ResolvedStyle struct {
	ElementRef     string              `json:"elementRef"`
	ColorClass     string              `json:"colorClass"`
	StrokeClass    string              `json:"strokeClass"`
	AnimationClass string              `json:"animationClass"`
	Badge          BadgeStyle          `json:"badge"`
	VisualState    VisualState         `json:"visualState"`
	NumericBadges  map[string]*float64 `json:"numericBadges"`
}

// StyleMap is the resolved overlay keyed by element ref.
type StyleMap map[string]ResolvedStyle

// SymbolRef is anything on the canvas that names the element it draws.
type SymbolRef interface {
	ElementRef() string
}

// DiagramSymbol is the JSON form of a rendered symbol. Only the element ref is
// read by the resolver.
type DiagramSymbol struct {
	ID        string `json:"id"`
	ElementID string `json:"elementId"`
	Kind      string `json:"kind,omitempty"`
}

// ElementRef returns the analysed element this symbol draws.
func (s DiagramSymbol) ElementRef() string {
	return s.ElementID
}
