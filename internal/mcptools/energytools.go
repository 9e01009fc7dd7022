package mcptools

import (
	"github.com/ritikaseth1003/GreenLint/internal/report"
	"github.com/ritikaseth1003/GreenLint/internal/store"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AnalyzeSourceInput is the input for the analyze_source MCP tool.
type AnalyzeSourceInput struct {
	Source   string `json:"source" jsonschema:"the Python source code to analyze"`
	Filename string `json:"filename,omitempty" jsonschema:"display name for the source (default: <string>)"`
}

// AnalyzeSourceOutput is the result of the analyze_source MCP tool.
type AnalyzeSourceOutput struct {
	Report *report.Document `json:"report"`
}

// AnalyzeFileInput is the input for the analyze_file MCP tool.
type AnalyzeFileInput struct {
	Path string `json:"path" jsonschema:"path to a Python file, or a directory to analyze recursively"`
}

// AnalyzeFileOutput is the result of the analyze_file MCP tool.
type AnalyzeFileOutput struct {
	Reports []*report.Document `json:"reports"`
	Failed  []string           `json:"failed,omitempty"`
}

// RefactorPromptInput is the input for the refactor_prompt MCP tool.
type RefactorPromptInput struct {
	Source   string `json:"source,omitempty" jsonschema:"the Python source code; one of source or path is required"`
	Path     string `json:"path,omitempty" jsonschema:"path to a Python file; one of source or path is required"`
	Filename string `json:"filename,omitempty" jsonschema:"display name when source is given inline"`
}

// RefactorPromptOutput is the result of the refactor_prompt MCP tool.
type RefactorPromptOutput struct {
	Prompt  string `json:"prompt"`
	Score   int    `json:"score"`
	Hotspot []int  `json:"hotspotRange,omitempty"`
}

// EnergyMapInput is the input for the energy_map MCP tool.
type EnergyMapInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries per ranking (default: 10)"`
}

// EnergyMapOutput is the result of the energy_map MCP tool.
type EnergyMapOutput struct {
	WorstFiles []store.FileRecord    `json:"worstFiles"`
	Hotspots   []store.HotspotRecord `json:"hotspots"`
	Stats      store.MapStats        `json:"stats"`
}
