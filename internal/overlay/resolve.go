package overlay

import "sort"

// Resolve maps payload elements onto the rendered symbols. Elements whose ref
// no symbol draws are dropped, and symbols without an element get no entry;
// a view is allowed to render only part of an analysed network.
//
// Resolve is pure: the returned map shares no mutable state with payload, and
// repeated calls with equal arguments return equal maps.
func Resolve[S SymbolRef](symbols []S, payload Payload) StyleMap {
	rendered := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		rendered[s.ElementRef()] = struct{}{}
	}

	styles := make(StyleMap)
	for _, el := range payload.Elements {
		if _, ok := rendered[el.ElementRef]; !ok {
			continue
		}
		styles[el.ElementRef] = resolveElement(el)
	}
	return styles
}

func resolveElement(el Element) ResolvedStyle {
	return ResolvedStyle{
		ElementRef:     el.ElementRef,
		ColorClass:     ColorClass(el.ColorToken),
		StrokeClass:    StrokeClass(el.StrokeToken),
		AnimationClass: AnimationClass(el.AnimationToken),
		Badge:          BadgeStyleFor(el.VisualState),
		VisualState:    el.VisualState,
		NumericBadges:  copyBadges(el.NumericBadges),
	}
}

func copyBadges(in map[string]*float64) map[string]*float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]*float64, len(in))
	for code, v := range in {
		if v == nil {
			out[code] = nil
			continue
		}
		c := *v
		out[code] = &c
	}
	return out
}

// Lookup returns the resolved style for ref and whether it exists.
func Lookup(styles StyleMap, ref string) (ResolvedStyle, bool) {
	s, ok := styles[ref]
	return s, ok
}

// Refs returns the refs in styles in ordinal order.
func (m StyleMap) Refs() []string {
	refs := make([]string, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Summary counts resolved elements per visual state.
type Summary struct {
	Total    int `json:"total"`
	Normal   int `json:"normal"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
	Inactive int `json:"inactive"`
	Other    int `json:"other"`
}

// Summarize counts the entries of styles by visual state.
func Summarize(styles StyleMap) Summary {
	var s Summary
	for _, st := range styles {
		s.Total++
		switch st.VisualState {
		case StateNormal:
			s.Normal++
		case StateWarning:
			s.Warning++
		case StateCritical:
			s.Critical++
		case StateInactive:
			s.Inactive++
		default:
			s.Other++
		}
	}
	return s
}
