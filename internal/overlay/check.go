package overlay

import "fmt"

// PayloadIssueCode identifies a producer-contract violation in a payload.
type PayloadIssueCode string

const (
	// IssueUnsortedElements marks an element whose ref does not sort after its predecessor.
	IssueUnsortedElements PayloadIssueCode = "unsorted-elements"
	// IssueDuplicateElementRef marks a ref that appears more than once.
	IssueDuplicateElementRef PayloadIssueCode = "duplicate-element-ref"
)

// PayloadIssue is one finding from CheckPayload.
type PayloadIssue struct {
	Code       PayloadIssueCode `json:"code"`
	Message    string           `json:"message"`
	ElementRef string           `json:"elementRef"`
	Index      int              `json:"index"`
}

// CheckPayload reports payloads that break the producer guarantees: unique
// element refs in strictly ascending ordinal order. Resolve does not depend on
// either guarantee; the check exists so loaders can surface a misbehaving
// backend. The result is empty, never nil, for a conforming payload.
func CheckPayload(p Payload) []PayloadIssue {
	issues := []PayloadIssue{}
	seen := make(map[string]bool, len(p.Elements))
	for i, el := range p.Elements {
		if seen[el.ElementRef] {
			issues = append(issues, PayloadIssue{
				Code:       IssueDuplicateElementRef,
				Message:    fmt.Sprintf("element ref %q appears more than once", el.ElementRef),
				ElementRef: el.ElementRef,
				Index:      i,
			})
			continue
		}
		seen[el.ElementRef] = true
		if i > 0 && p.Elements[i-1].ElementRef > el.ElementRef {
			issues = append(issues, PayloadIssue{
				Code:       IssueUnsortedElements,
				Message:    fmt.Sprintf("element ref %q sorts before preceding ref %q", el.ElementRef, p.Elements[i-1].ElementRef),
				ElementRef: el.ElementRef,
				Index:      i,
			})
		}
	}
	return issues
}
