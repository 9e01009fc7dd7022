package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
)

// pylintMessage is one entry of pylint's JSON output. Only presence
// matters for the structural warning count.
type pylintMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// StructuralWarnings runs pylint on the given file and returns the
// number of messages it emits. The second return is false when pylint
// is unavailable or its output is unusable.
//
// Pylint exits non-zero whenever it finds anything, so exit status is
// only treated as failure when no parseable output came back.
func StructuralWarnings(ctx context.Context, path string) (int, bool) {
	cmd := exec.CommandContext(ctx, "pylint", "--output-format=json", "--reports=no", path)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, false
		}
	}

	var messages []pylintMessage
	if err := json.Unmarshal(out, &messages); err != nil {
		return 0, false
	}
	return len(messages), true
}
