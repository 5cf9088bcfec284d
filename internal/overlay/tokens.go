package overlay

// ColorToken is a semantic color name. It is never a literal color value.
type ColorToken string

const (
	ColorOK       ColorToken = "ok"
	ColorInfo     ColorToken = "info"
	ColorWarning  ColorToken = "warning"
	ColorCritical ColorToken = "critical"
	ColorInactive ColorToken = "inactive"
)

// StrokeToken is a semantic line-weight name.
type StrokeToken string

const (
	StrokeNormal StrokeToken = "normal"
	StrokeBold   StrokeToken = "bold"
	StrokeDashed StrokeToken = "dashed"
)

// AnimationToken is a semantic animation name. The empty token means no
// animation.
type AnimationToken string

const (
	AnimationNone        AnimationToken = ""
	AnimationFlowForward AnimationToken = "flow-forward"
	AnimationFlowReverse AnimationToken = "flow-reverse"
	AnimationPulse       AnimationToken = "pulse"
)

// ColorClass maps a color token to its style class. Tokens outside the
// vocabulary resolve like ColorInactive.
func ColorClass(t ColorToken) string {
	switch t {
	case ColorOK:
		return "sld-overlay-ok"
	case ColorInfo:
		return "sld-overlay-info"
	case ColorWarning:
		return "sld-overlay-warning"
	case ColorCritical:
		return "sld-overlay-critical"
	case ColorInactive:
		return "sld-overlay-inactive"
	default:
		return ColorClass(ColorInactive)
	}
}

// StrokeClass maps a stroke token to its style class. Tokens outside the
// vocabulary resolve like StrokeNormal.
func StrokeClass(t StrokeToken) string {
	switch t {
	case StrokeNormal:
		return "sld-stroke-normal"
	case StrokeBold:
		return "sld-stroke-bold"
	case StrokeDashed:
		return "sld-stroke-dashed"
	default:
		return StrokeClass(StrokeNormal)
	}
}

// AnimationClass maps an animation token to its style class. Unknown tokens
// and AnimationNone produce no class.
func AnimationClass(t AnimationToken) string {
	switch t {
	case AnimationFlowForward:
		return "sld-anim-flow-forward"
	case AnimationFlowReverse:
		return "sld-anim-flow-reverse"
	case AnimationPulse:
		return "sld-anim-pulse"
	default:
		return ""
	}
}

// BadgeStyleFor returns the fixed badge styling for a visual state. Unknown
// states get the inactive badge.
func BadgeStyleFor(s VisualState) BadgeStyle {
	switch s {
	case StateNormal:
		return BadgeStyle{Background: "bg-emerald-50", Foreground: "text-emerald-800", Border: "border-emerald-300"}
	case StateWarning:
		return BadgeStyle{Background: "bg-amber-50", Foreground: "text-amber-800", Border: "border-amber-400"}
	case StateCritical:
		return BadgeStyle{Background: "bg-rose-50", Foreground: "text-rose-800", Border: "border-rose-500"}
	case StateInactive:
		return BadgeStyle{Background: "bg-slate-100", Foreground: "text-slate-500", Border: "border-slate-300"}
	default:
		return BadgeStyleFor(StateInactive)
	}
}

// Severity is the backend's verdict on one element. The overlay layer never
// derives it.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
	SeverityHigh Severity = "high"
)

// rank orders severities so the most severe finding for an element wins.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityWarn:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// VisualStateFor maps a severity to its visual state. Unrecognised severities
// map to StateNormal, the same as having no finding at all.
func VisualStateFor(s Severity) VisualState {
	switch s {
	case SeverityHigh:
		return StateCritical
	case SeverityWarn:
		return StateWarning
	case SeverityInfo:
		return StateNormal
	default:
		return StateNormal
	}
}

// ColorTokenFor maps a severity to its color token, defaulting to ColorOK.
func ColorTokenFor(s Severity) ColorToken {
	switch s {
	case SeverityHigh:
		return ColorCritical
	case SeverityWarn:
		return ColorWarning
	case SeverityInfo:
		return ColorOK
	default:
		return ColorOK
	}
}

// StrokeTokenFor maps a severity to its stroke token. Only high-severity
// findings draw bold.
func StrokeTokenFor(s Severity) StrokeToken {
	switch s {
	case SeverityHigh:
		return StrokeBold
	default:
		return StrokeNormal
	}
}
