package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ritikaseth1003/GreenLint/internal/config"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Format      string
	Complexity  bool
	Radon       bool
	Pylint      bool
	Diagnostics bool
	Prompt      bool
	Map         bool
	DBPath      string
	ServeMCP    bool
	Addr        string
	Verbose     bool
	Version     bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("greenlint", flag.ContinueOnError)
	fs.StringVar(&flags.Format, "format", "", "output format: text or json (default text)")
	fs.BoolVar(&flags.Complexity, "complexity", false, "include built-in cyclomatic complexity in scoring")
	fs.BoolVar(&flags.Radon, "radon", false, "use radon for cyclomatic complexity (falls back to built-in)")
	fs.BoolVar(&flags.Pylint, "pylint", false, "count pylint messages as structural warnings")
	fs.BoolVar(&flags.Diagnostics, "diagnostics", false, "emit editor diagnostics JSON instead of a report")
	fs.BoolVar(&flags.Prompt, "prompt", false, "emit a hotspot refactoring prompt instead of a report")
	fs.BoolVar(&flags.Map, "map", false, "query the project energy map instead of analyzing")
	fs.StringVar(&flags.DBPath, "db", "", "path to a persistent energy map database")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server for editor integration")
	fs.StringVar(&flags.Addr, "addr", "localhost:8931", "address for the MCP server")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyConfig(&flags, cfg)

	logger, err := buildLogger(flags.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine := scoring.NewEngine(cfg.EngineConfig())

	switch {
	case flags.ServeMCP:
		return runServeMCP(flags, engine, logger)
	case flags.Map:
		return runMap(flags)
	default:
		return runAnalyze(fs.Arg(0), flags, cfg, engine, logger)
	}
}

// applyConfig fills flags the command line left at their zero value from
// the project config file.
func applyConfig(flags *cliFlags, cfg *config.ProjectConfig) {
	if flags.Format == "" {
		flags.Format = cfg.Format
	}
	if flags.Format == "" {
		flags.Format = "text"
	}
	flags.Radon = flags.Radon || cfg.Radon
	flags.Pylint = flags.Pylint || cfg.Pylint
	flags.Verbose = flags.Verbose || cfg.Verbose
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
