package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ritikaseth1003/GreenLint/internal/analyzer"
	"github.com/ritikaseth1003/GreenLint/internal/config"
	"github.com/ritikaseth1003/GreenLint/internal/energy"
	"github.com/ritikaseth1003/GreenLint/internal/integrations"
	"github.com/ritikaseth1003/GreenLint/internal/report"
	"github.com/ritikaseth1003/GreenLint/internal/runner"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
	"github.com/ritikaseth1003/GreenLint/internal/store"
)

// runAnalyze handles the default mode: analyze a file, a directory, or
// stdin ("-" or no argument), and print the result.
func runAnalyze(path string, flags cliFlags, cfg *config.ProjectConfig, engine *scoring.Engine, logger *zap.Logger) error {
	ctx := context.Background()

	if path == "" || path == "-" {
		return analyzeStdin(ctx, flags, engine)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return analyzeProject(ctx, path, flags, cfg, engine, logger)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	r, err := analyzeSource(ctx, source, path, flags, engine)
	if err != nil {
		return err
	}
	return printReport(r, source, flags)
}

func analyzeStdin(ctx context.Context, flags cliFlags, engine *scoring.Engine) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	r, err := analyzeSource(ctx, source, "", flags, engine)
	if err != nil {
		return err
	}
	return printReport(r, source, flags)
}

// analyzeSource runs the single-source pipeline with the requested
// complexity and linter signals.
func analyzeSource(ctx context.Context, source []byte, filename string, flags cliFlags, engine *scoring.Engine) (*energy.Report, error) {
	a := analyzer.NewAnalyzer()
	res, err := a.AnalyzeSource(source, filename)
	if err != nil {
		return nil, err
	}

	in := scoring.Input{Source: source, Filename: filename}
	if flags.Radon {
		if cc, ok := integrations.MaxCyclomaticComplexity(ctx, source); ok {
			in.CyclomaticComplexity = cc
		} else if cc, err := a.MaxComplexity(source); err == nil {
			in.CyclomaticComplexity = cc
		}
	} else if flags.Complexity {
		if cc, err := a.MaxComplexity(source); err == nil {
			in.CyclomaticComplexity = cc
		}
	}
	if flags.Pylint && filename != "" {
		if warnings, ok := integrations.StructuralWarnings(ctx, filename); ok {
			in.StructuralWarnings = warnings
		}
	}

	return engine.ComputeReport(res.Issues, res.Blocks, in), nil
}

// analyzeProject fans out over a directory tree, printing per-file
// summaries and storing reports in the energy map when -db is given.
func analyzeProject(ctx context.Context, root string, flags cliFlags, cfg *config.ProjectConfig, engine *scoring.Engine, logger *zap.Logger) error {
	progress := runner.NewProgressReporter()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range progress.Subscribe() {
			if ev.Status == runner.ProgressComplete || ev.Status == runner.ProgressFailed {
				fmt.Fprintln(os.Stderr, runner.FormatProgress(ev))
			}
		}
	}()

	r := runner.New(runner.Options{
		Engine:               engine,
		UseBuiltinComplexity: flags.Complexity,
		UseRadon:             flags.Radon,
		UsePylint:            flags.Pylint,
		ExcludeDirs:          cfg.ExcludeDirs,
		Logger:               logger,
		Progress:             progress,
	})

	results, err := r.Run(ctx, root)
	progress.Close()
	<-printed
	if err != nil {
		return err
	}

	var st store.Store
	if flags.DBPath != "" {
		st, err = openStore(flags.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.InitSchema(ctx); err != nil {
			return err
		}
	}

	var reports []*energy.Report
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		reports = append(reports, res.Report)
		if st != nil {
			if err := st.PutReport(ctx, res.Path, res.Report); err != nil {
				return fmt.Errorf("store report %s: %w", res.Path, err)
			}
		}
	}

	if flags.Format == "json" {
		data, err := report.JSONAll(reports)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, rep := range reports {
			fmt.Println(report.Text(rep, false))
		}
		fmt.Printf("Analyzed %d files (%d failed)\n", len(results), failed)
	}
	if failed > 0 && len(reports) == 0 {
		return errors.New("all files failed to analyze")
	}
	return nil
}

// printReport renders one report according to the output flags.
func printReport(r *energy.Report, source []byte, flags cliFlags) error {
	switch {
	case flags.Prompt:
		fmt.Println(report.RefactorPrompt(r, string(source)))
		return nil
	case flags.Diagnostics:
		diags, target := report.Diagnostics(r)
		doc := report.ToDocument(r)
		doc.Diagnostics = diags
		doc.RefactorTarget = target
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case flags.Format == "json":
		data, err := report.JSON(r)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	default:
		fmt.Println(report.Text(r, false))
		return nil
	}
}

// openStore picks the energy map backend: persistent Kuzu when a path
// is given, in-memory otherwise.
func openStore(dbPath string) (store.Store, error) {
	if dbPath == "" {
		return store.NewMemStore(), nil
	}
	st, err := store.NewKuzuFileStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open energy map %s: %w", dbPath, err)
	}
	return st, nil
}
