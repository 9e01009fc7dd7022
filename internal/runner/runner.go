// Package runner walks a directory tree and analyzes every Python file
// in parallel, producing one report per file.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ritikaseth1003/GreenLint/internal/analyzer"
	"github.com/ritikaseth1003/GreenLint/internal/energy"
	"github.com/ritikaseth1003/GreenLint/internal/integrations"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":          true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	"node_modules":  true,
	".mypy_cache":   true,
	".pytest_cache": true,
}

// Options configures a project run. The zero value analyzes with the
// default engine, no external linters, and NumCPU workers.
type Options struct {
	Engine *scoring.Engine

	// UseBuiltinComplexity feeds each file's maximum cyclomatic
	// complexity (computed from the parse tree) into scoring.
	UseBuiltinComplexity bool

	// UseRadon and UsePylint shell out to the respective Python tools
	// when available; a missing tool contributes no signal.
	UseRadon  bool
	UsePylint bool

	ExcludeDirs []string
	Concurrency int

	Logger *zap.Logger

	// Progress, when set, receives a lifecycle event per file. The
	// reporter is owned by the caller, which closes it after Run returns.
	Progress *ProgressReporter
}

// FileResult pairs one file's path with its report or failure.
type FileResult struct {
	Path   string
	Report *energy.Report
	Err    error
}

// Runner analyzes whole directory trees of Python source.
type Runner struct {
	opts Options
}

// New creates a Runner, filling in defaults for unset options.
func New(opts Options) *Runner {
	if opts.Engine == nil {
		opts.Engine = scoring.NewEngine(scoring.Config{})
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{opts: opts}
}

// Run walks root for *.py files and analyzes them in parallel. Per-file
// failures (unreadable files, syntax errors) are recorded in their
// FileResult and do not abort the run; only walk errors and context
// cancellation do. Results are ordered by path (walk order).
func (r *Runner) Run(ctx context.Context, root string) ([]FileResult, error) {
	paths, err := r.collect(root)
	if err != nil {
		return nil, err
	}
	r.opts.Logger.Info("project run starting",
		zap.String("root", root),
		zap.Int("files", len(paths)),
		zap.Int("workers", r.opts.Concurrency))

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, path := range paths {
		r.emit(ProgressEvent{Path: path, Status: ProgressPending})

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.emit(ProgressEvent{Path: path, Status: ProgressWorking})

			report, err := r.analyzeOne(gctx, path)
			results[i] = FileResult{Path: path, Report: report, Err: err}

			if err != nil {
				r.opts.Logger.Warn("analysis failed",
					zap.String("path", path),
					zap.Error(err))
				r.emit(ProgressEvent{Path: path, Status: ProgressFailed, Message: err.Error()})
				return nil // per-file failures do not cancel the run
			}
			r.opts.Logger.Debug("analysis complete",
				zap.String("path", path),
				zap.Int("score", report.Score),
				zap.Int("issues", len(report.Issues)))
			r.emit(ProgressEvent{Path: path, Status: ProgressComplete, Score: report.Score})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// analyzeOne runs the full pipeline for a single file. Each call uses
// its own Analyzer; they are cheap and not shared across goroutines.
func (r *Runner) analyzeOne(ctx context.Context, path string) (*energy.Report, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	a := analyzer.NewAnalyzer()
	res, err := a.AnalyzeSource(source, path)
	if err != nil {
		return nil, err
	}

	in := scoring.Input{Source: source, Filename: path}
	r.complexitySignal(ctx, a, source, &in)
	if r.opts.UsePylint {
		if warnings, ok := integrations.StructuralWarnings(ctx, path); ok {
			in.StructuralWarnings = warnings
		}
	}

	return r.opts.Engine.ComputeReport(res.Issues, res.Blocks, in), nil
}

// complexitySignal fills in cyclomatic complexity from radon when
// requested, falling back to the built-in tree-sitter computation.
func (r *Runner) complexitySignal(ctx context.Context, a *analyzer.Analyzer, source []byte, in *scoring.Input) {
	if r.opts.UseRadon {
		if cc, ok := integrations.MaxCyclomaticComplexity(ctx, source); ok {
			in.CyclomaticComplexity = cc
			return
		}
	}
	if r.opts.UseBuiltinComplexity || r.opts.UseRadon {
		if cc, err := a.MaxComplexity(source); err == nil {
			in.CyclomaticComplexity = cc
		}
	}
}

// collect gathers all *.py paths under root in walk order.
func (r *Runner) collect(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && r.skip(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no Python files found under " + root)
	}
	return paths, nil
}

func (r *Runner) skip(name string) bool {
	if skipDirs[name] {
		return true
	}
	for _, d := range r.opts.ExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}

func (r *Runner) emit(ev ProgressEvent) {
	if r.opts.Progress != nil {
		r.opts.Progress.Emit(ev)
	}
}
