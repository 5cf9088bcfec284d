package overlay

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownView is returned by Adapt for a view outside the View set.
var ErrUnknownView = errors.New("unknown overlay view")

// ErrRunMismatch is returned by Adapt when the interpretation belongs to a
// different analysis run than the result.
var ErrRunMismatch = errors.New("interpretation run does not match result run")

// View selects which part of an analysis result an overlay shows.
type View string

const (
	ViewNodalVoltage  View = "nodal-voltage"
	ViewBranchLoading View = "branch-loading"
	ViewFlowDirection View = "flow-direction"
)

// Views lists every supported view in display order.
func Views() []View {
	return []View{ViewNodalVoltage, ViewBranchLoading, ViewFlowDirection}
}

// FlowDirection is the backend-reported direction of active power on a branch
// relative to its from/to orientation.
type FlowDirection string

const (
	FlowForward FlowDirection = "forward"
	FlowReverse FlowDirection = "reverse"
	FlowNone    FlowDirection = "none"
)

// AnalysisResult is the per-element output of one analysis run. Every numeric
// field is optional; nil means the backend did not compute it.
type AnalysisResult struct {
	RunID        string         `json:"run_id"`
	AnalysisType string         `json:"analysis_type"`
	Buses        []BusResult    `json:"buses"`
	Branches     []BranchResult `json:"branches"`
}

// BusResult holds nodal values for one bus.
type BusResult struct {
	BusRef   string   `json:"bus_ref"`
	UKV      *float64 `json:"u_kv"`
	UPU      *float64 `json:"u_pu"`
	AngleDeg *float64 `json:"angle_deg"`
}

// BranchResult holds flow and loading values for one line or transformer.
type BranchResult struct {
	BranchRef     string        `json:"branch_ref"`
	Kind          string        `json:"kind"`
	InService     *bool         `json:"in_service,omitempty"`
	LoadingPct    *float64      `json:"loading_pct"`
	IKA           *float64      `json:"i_ka"`
	PMW           *float64      `json:"p_mw"`
	QMVAr         *float64      `json:"q_mvar"`
	LossesMW      *float64      `json:"losses_mw"`
	FlowDirection FlowDirection `json:"flow_direction,omitempty"`
}

// inService treats a missing flag as in service.
func (b BranchResult) inService() bool {
	return b.InService == nil || *b.InService
}

// Interpretation carries the backend's findings for a run. Severities are
// decided by the backend.
type Interpretation struct {
	RunID    string    `json:"run_id"`
	Findings []Finding `json:"findings"`
}

// Finding is one backend verdict on one element.
type Finding struct {
	ElementRef string   `json:"element_ref"`
	Severity   Severity `json:"severity"`
	Code       string   `json:"code,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// Adapt builds the payload for view. It fails only for an unknown view or an
// interpretation bound to another run.
func Adapt(view View, result AnalysisResult, interp *Interpretation) (Payload, error) {
	if interp != nil && interp.RunID != "" && interp.RunID != result.RunID {
		return Payload{}, fmt.Errorf("%w: result %q, interpretation %q", ErrRunMismatch, result.RunID, interp.RunID)
	}
	switch view {
	case ViewNodalVoltage:
		return AdaptNodalVoltage(result, interp), nil
	case ViewBranchLoading:
		return AdaptBranchLoading(result, interp), nil
	case ViewFlowDirection:
		return AdaptFlowDirection(result, interp), nil
	default:
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// AdaptNodalVoltage produces one element per bus.
func AdaptNodalVoltage(result AnalysisResult, interp *Interpretation) Payload {
	severities := severityIndex(result.RunID, interp)

	buses := append([]BusResult(nil), result.Buses...)
	sort.SliceStable(buses, func(i, j int) bool { return buses[i].BusRef < buses[j].BusRef })

	elements := make([]Element, 0, len(buses))
	for i, b := range buses {
		if i > 0 && buses[i-1].BusRef == b.BusRef {
			continue
		}
		sev := severities[b.BusRef]
		elements = append(elements, Element{
			ElementRef:     b.BusRef,
			ElementType:    "bus",
			VisualState:    VisualStateFor(sev),
			ColorToken:     ColorTokenFor(sev),
			StrokeToken:    StrokeNormal,
			AnimationToken: AnimationNone,
			NumericBadges: badges(
				badge{"U_kV", b.UKV},
				badge{"U_pu", b.UPU},
				badge{"angle_deg", b.AngleDeg},
			),
		})
	}

	return Payload{
		RunID:        result.RunID,
		AnalysisType: result.AnalysisType,
		Elements:     elements,
		Legend: []LegendEntry{
			{ColorToken: ColorOK, Label: "Voltage within limits"},
			{ColorToken: ColorWarning, Label: "Voltage near limit", Description: "Finding of severity warn reported by the analysis"},
			{ColorToken: ColorCritical, Label: "Voltage limit violated", Description: "Finding of severity high reported by the analysis"},
		},
	}
}

// AdaptBranchLoading produces one element per branch. Out-of-service branches
// are drawn inactive whatever their findings.
func AdaptBranchLoading(result AnalysisResult, interp *Interpretation) Payload {
	severities := severityIndex(result.RunID, interp)

	elements := make([]Element, 0, len(result.Branches))
	for _, b := range sortedBranches(result.Branches) {
		sev := severities[b.BranchRef]
		el := Element{
			ElementRef:     b.BranchRef,
			ElementType:    branchType(b),
			VisualState:    VisualStateFor(sev),
			ColorToken:     ColorTokenFor(sev),
			StrokeToken:    StrokeTokenFor(sev),
			AnimationToken: AnimationNone,
			NumericBadges: badges(
				badge{"loading_pct", b.LoadingPct},
				badge{"i_ka", b.IKA},
				badge{"p_mw", b.PMW},
				badge{"q_mvar", b.QMVAr},
				badge{"losses_mw", b.LossesMW},
			),
		}
		if !b.inService() {
			markInactive(&el)
		}
		elements = append(elements, el)
	}

	return Payload{
		RunID:        result.RunID,
		AnalysisType: result.AnalysisType,
		Elements:     elements,
		Legend: []LegendEntry{
			{ColorToken: ColorOK, Label: "Loading within rating"},
			{ColorToken: ColorWarning, Label: "Loading near rating", Description: "Finding of severity warn reported by the analysis"},
			{ColorToken: ColorCritical, Label: "Overloaded", Description: "Finding of severity high reported by the analysis"},
			{ColorToken: ColorInactive, Label: "Out of service"},
		},
	}
}

// AdaptFlowDirection produces one element per branch with an animation token
// taken from the backend-reported flow direction.
func AdaptFlowDirection(result AnalysisResult, interp *Interpretation) Payload {
	severities := severityIndex(result.RunID, interp)

	elements := make([]Element, 0, len(result.Branches))
	for _, b := range sortedBranches(result.Branches) {
		sev := severities[b.BranchRef]
		el := Element{
			ElementRef:     b.BranchRef,
			ElementType:    branchType(b),
			VisualState:    VisualStateFor(sev),
			ColorToken:     ColorTokenFor(sev),
			StrokeToken:    StrokeNormal,
			AnimationToken: animationFor(b.FlowDirection),
			NumericBadges: badges(
				badge{"p_mw", b.PMW},
				badge{"q_mvar", b.QMVAr},
			),
		}
		if !b.inService() {
			markInactive(&el)
		}
		elements = append(elements, el)
	}

	return Payload{
		RunID:        result.RunID,
		AnalysisType: result.AnalysisType,
		Elements:     elements,
		Legend: []LegendEntry{
			{ColorToken: ColorOK, Label: "Power flow"},
			{ColorToken: ColorWarning, Label: "Flow with warning", Description: "Finding of severity warn reported by the analysis"},
			{ColorToken: ColorCritical, Label: "Flow with violation", Description: "Finding of severity high reported by the analysis"},
			{ColorToken: ColorInactive, Label: "No flow (out of service)"},
		},
	}
}

func animationFor(d FlowDirection) AnimationToken {
	switch d {
	case FlowForward:
		return AnimationFlowForward
	case FlowReverse:
		return AnimationFlowReverse
	default:
		return AnimationNone
	}
}

func markInactive(el *Element) {
	el.VisualState = StateInactive
	el.ColorToken = ColorInactive
	el.StrokeToken = StrokeDashed
	el.AnimationToken = AnimationNone
}

func branchType(b BranchResult) string {
	if b.Kind == "" {
		return "branch"
	}
	return b.Kind
}

// sortedBranches returns a copy of branches ordered by ref, keeping the first
// of any duplicate refs.
func sortedBranches(branches []BranchResult) []BranchResult {
	sorted := append([]BranchResult(nil), branches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BranchRef < sorted[j].BranchRef })
	out := make([]BranchResult, 0, len(sorted))
	for i, b := range sorted {
		if i > 0 && sorted[i-1].BranchRef == b.BranchRef {
			continue
		}
		out = append(out, b)
	}
	return out
}

// severityIndex returns the most severe finding per element. Findings from an
// interpretation of another run are ignored.
func severityIndex(runID string, interp *Interpretation) map[string]Severity {
	idx := make(map[string]Severity)
	if interp == nil || (interp.RunID != "" && interp.RunID != runID) {
		return idx
	}
	for _, f := range interp.Findings {
		if f.Severity.rank() > idx[f.ElementRef].rank() {
			idx[f.ElementRef] = f.Severity
		}
	}
	return idx
}

type badge struct {
	code  string
	value *float64
}

// badges builds a badge map. Values are copied, never computed; a nil value
// stays nil.
func badges(bs ...badge) map[string]*float64 {
	m := make(map[string]*float64, len(bs))
	for _, b := range bs {
		if b.value == nil {
			m[b.code] = nil
			continue
		}
		v := *b.value
		m[b.code] = &v
	}
	return m
}
