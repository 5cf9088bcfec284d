package cmd

import (
	"fmt"
	"io"

	"github.com/eykd/sldview/internal/sld/overrides"
)

// formatIssue renders one override issue as a single human-readable line.
func formatIssue(issue overrides.Issue) string {
	return fmt.Sprintf("%s: %s", issue.Code, sanitize(issue.Message))
}

// printIssues writes one indented line per issue to w.
func printIssues(w io.Writer, issues []overrides.Issue) {
	for _, issue := range issues {
		fmt.Fprintln(w, "  "+formatIssue(issue))
	}
}
