package diagnostics

import (
	"fmt"
	"strings"
)

// Markdown renders the result as a level-two section: a ✓ heading with the
// summary and findings, or a ✗ heading with the load error.
func (r Result) Markdown() string {
	var b strings.Builder
	if r.Err != nil {
		fmt.Fprintf(&b, "## %s ✗\n\nload failed: `%s`\n", r.Module, r.Err)
		return b.String()
	}
	fmt.Fprintf(&b, "## %s ✓\n\n%s\n", r.Module, r.Report.Summary)
	if len(r.Report.Findings) > 0 {
		b.WriteString("\n")
		for _, f := range r.Report.Findings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}
