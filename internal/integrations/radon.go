// Package integrations shells out to optional external Python linters.
// Every bridge degrades gracefully: when the tool is missing or its
// output cannot be parsed, the caller gets no signal rather than an
// error that would block analysis.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
)

// radonBlock is one entry of radon's JSON cc output.
type radonBlock struct {
	Complexity int `json:"complexity"`
}

// MaxCyclomaticComplexity runs `radon cc -j -` with the source on stdin
// and returns the maximum complexity of any single block. The second
// return is false when radon is unavailable or its output is unusable.
func MaxCyclomaticComplexity(ctx context.Context, source []byte) (int, bool) {
	cmd := exec.CommandContext(ctx, "radon", "cc", "-j", "-")
	cmd.Stdin = bytes.NewReader(source)

	out, err := cmd.Output()
	if err != nil {
		return 0, false
	}

	// Output is keyed by filename; stdin shows up as "-".
	var byFile map[string][]radonBlock
	if err := json.Unmarshal(out, &byFile); err != nil {
		return 0, false
	}

	maxCC := 0
	for _, blocks := range byFile {
		for _, b := range blocks {
			if b.Complexity > maxCC {
				maxCC = b.Complexity
			}
		}
	}
	return maxCC, true
}
