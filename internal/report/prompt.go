package report

import (
	"fmt"
	"strings"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// NoHotspotPrompt is returned when the report has nothing to refactor.
const NoHotspotPrompt = "No hotspot detected for refactoring."

// RefactorPrompt builds a replacement-directive prompt for an external
// refactoring assistant, targeting the report's hotspot region. The
// original source, when provided, is sliced to the hotspot's lines.
func RefactorPrompt(r *energy.Report, originalCode string) string {
	h := r.Hotspot
	if h == nil {
		return NoHotspotPrompt
	}

	var inRange []energy.Issue
	for _, is := range r.Issues {
		if is.Line >= h.StartLine && is.Line <= h.EndLine {
			inRange = append(inRange, is)
		}
	}

	specificCode := "[Code not provided]"
	if originalCode != "" {
		lines := strings.Split(originalCode, "\n")
		if h.StartLine <= len(lines) {
			end := h.EndLine
			if end > len(lines) {
				end = len(lines)
			}
			specificCode = strings.Join(lines[h.StartLine-1:end], "\n")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a code refactoring assistant. Your task is to REPLACE the code at lines %d-%d with an optimized version.\n\n", h.StartLine, h.EndLine)
	fmt.Fprintf(&b, "## ORIGINAL CODE TO REPLACE (lines %d-%d):\n", h.StartLine, h.EndLine)
	fmt.Fprintf(&b, "```python\n%s\n```\n\n", specificCode)
	fmt.Fprintf(&b, "## ISSUES TO FIX IN THIS REGION:\n")

	for _, is := range inRange {
		fmt.Fprintf(&b, "- Line %d: %s", is.Line, is.Message)
		if is.Detail != "" {
			fmt.Fprintf(&b, " (%s)", is.Detail)
		}
		if is.EstimatedImpact > 0 {
			fmt.Fprintf(&b, " [Impact: %.1f]", is.EstimatedImpact)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
## REFACTORING REQUIREMENTS:
1. **KEEP THE SAME FUNCTION NAME AND SIGNATURE** - Do not rename the function
2. **REPLACE** - Return only the code that should go in lines %d-%d
3. **NO NEW FUNCTIONS** - Do not create additional functions or keep the original code
4. **SAME INDENTATION LEVEL** - Maintain proper indentation for the replacement code
5. **PRESERVE FUNCTIONALITY** - The code should do the same thing, just more efficiently

## OPTIMIZATION GUIDELINES:
- Reduce computational complexity (avoid nested loops, use early breaks)
- Minimize memory allocations (pre-allocate, use generators)
- Avoid expensive operations inside loops (move them outside)
- Replace recursion with iteration where possible
- Use appropriate data structures (sets for lookups, etc.)

## OUTPUT FORMAT:
Return ONLY the refactored code for lines %d-%d.
No explanations, no markdown formatting, no backticks, just the raw Python code.
`, h.StartLine, h.EndLine, h.StartLine, h.EndLine)

	return b.String()
}
