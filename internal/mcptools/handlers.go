package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ritikaseth1003/GreenLint/internal/analyzer"
	"github.com/ritikaseth1003/GreenLint/internal/energy"
	"github.com/ritikaseth1003/GreenLint/internal/report"
	"github.com/ritikaseth1003/GreenLint/internal/runner"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
	"github.com/ritikaseth1003/GreenLint/internal/store"
)

// EnergyService holds the scoring engine and energy map store used by
// MCP tool handlers.
type EnergyService struct {
	engine *scoring.Engine
	store  store.Store
	log    *zap.Logger
}

// NewEnergyService creates an EnergyService. A nil logger disables logging.
func NewEnergyService(engine *scoring.Engine, st store.Store, log *zap.Logger) *EnergyService {
	if engine == nil {
		engine = scoring.NewEngine(scoring.Config{})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EnergyService{engine: engine, store: st, log: log}
}

// AnalyzeSource analyzes inline Python source and returns its report.
func (s *EnergyService) AnalyzeSource(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeSourceInput,
) (*mcp.CallToolResult, AnalyzeSourceOutput, error) {
	if input.Source == "" {
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("source is required")
	}

	r, err := s.analyze([]byte(input.Source), input.Filename)
	if err != nil {
		return nil, AnalyzeSourceOutput{}, err
	}
	return nil, AnalyzeSourceOutput{Report: report.ToDocument(r)}, nil
}

// AnalyzeFile analyzes a file, or every Python file under a directory,
// and records the reports in the energy map when a store is configured.
func (s *EnergyService) AnalyzeFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeFileInput,
) (*mcp.CallToolResult, AnalyzeFileOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeFileOutput{}, fmt.Errorf("path is required")
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, AnalyzeFileOutput{}, fmt.Errorf("cannot access path: %w", err)
	}

	var out AnalyzeFileOutput
	if info.IsDir() {
		results, err := runner.New(runner.Options{Engine: s.engine, Logger: s.log}).Run(ctx, input.Path)
		if err != nil {
			return nil, AnalyzeFileOutput{}, err
		}
		for _, res := range results {
			if res.Err != nil {
				out.Failed = append(out.Failed, res.Path)
				continue
			}
			if err := s.record(ctx, res.Path, res.Report); err != nil {
				return nil, AnalyzeFileOutput{}, err
			}
			out.Reports = append(out.Reports, report.ToDocument(res.Report))
		}
		return nil, out, nil
	}

	source, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, AnalyzeFileOutput{}, fmt.Errorf("read %s: %w", input.Path, err)
	}
	r, err := s.analyze(source, input.Path)
	if err != nil {
		return nil, AnalyzeFileOutput{}, err
	}
	if err := s.record(ctx, input.Path, r); err != nil {
		return nil, AnalyzeFileOutput{}, err
	}
	out.Reports = append(out.Reports, report.ToDocument(r))
	return nil, out, nil
}

// RefactorPrompt analyzes source and builds a hotspot refactoring prompt.
func (s *EnergyService) RefactorPrompt(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RefactorPromptInput,
) (*mcp.CallToolResult, RefactorPromptOutput, error) {
	source := []byte(input.Source)
	filename := input.Filename
	if len(source) == 0 {
		if input.Path == "" {
			return nil, RefactorPromptOutput{}, fmt.Errorf("one of source or path is required")
		}
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, RefactorPromptOutput{}, fmt.Errorf("read %s: %w", input.Path, err)
		}
		source = data
		filename = input.Path
	}

	r, err := s.analyze(source, filename)
	if err != nil {
		return nil, RefactorPromptOutput{}, err
	}

	out := RefactorPromptOutput{
		Prompt: report.RefactorPrompt(r, string(source)),
		Score:  r.Score,
	}
	if r.Hotspot != nil {
		out.Hotspot = []int{r.Hotspot.StartLine, r.Hotspot.EndLine}
	}
	return nil, out, nil
}

// EnergyMap returns project-wide rankings from the energy map store.
func (s *EnergyService) EnergyMap(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EnergyMapInput,
) (*mcp.CallToolResult, EnergyMapOutput, error) {
	if s.store == nil {
		return nil, EnergyMapOutput{}, fmt.Errorf("no energy map store configured")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	worst, err := s.store.WorstFiles(ctx, limit)
	if err != nil {
		return nil, EnergyMapOutput{}, fmt.Errorf("worst files: %w", err)
	}
	hotspots, err := s.store.ProjectHotspots(ctx, limit)
	if err != nil {
		return nil, EnergyMapOutput{}, fmt.Errorf("hotspots: %w", err)
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, EnergyMapOutput{}, fmt.Errorf("stats: %w", err)
	}

	return nil, EnergyMapOutput{
		WorstFiles: worst,
		Hotspots:   hotspots,
		Stats:      *stats,
	}, nil
}

// analyze runs the single-source pipeline.
func (s *EnergyService) analyze(source []byte, filename string) (*energy.Report, error) {
	a := analyzer.NewAnalyzer()
	res, err := a.AnalyzeSource(source, filename)
	if err != nil {
		return nil, err
	}
	cc, err := a.MaxComplexity(source)
	if err != nil {
		cc = 0
	}
	return s.engine.ComputeReport(res.Issues, res.Blocks, scoring.Input{
		Source:               source,
		Filename:             filename,
		CyclomaticComplexity: cc,
	}), nil
}

// record persists a report into the energy map when a store is configured.
func (s *EnergyService) record(ctx context.Context, path string, r *energy.Report) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.PutReport(ctx, path, r); err != nil {
		return fmt.Errorf("store report %s: %w", path, err)
	}
	return nil
}
