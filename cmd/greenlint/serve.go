package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ritikaseth1003/GreenLint/internal/mcptools"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
	"github.com/ritikaseth1003/GreenLint/internal/store"
)

// runServeMCP runs the MCP server until interrupted.
func runServeMCP(flags cliFlags, engine *scoring.Engine, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if flags.DBPath != "" {
		opened, err := openStore(flags.DBPath)
		if err != nil {
			return err
		}
		defer opened.Close()
		if err := opened.InitSchema(ctx); err != nil {
			return err
		}
		st = opened
	} else {
		st = store.NewMemStore()
	}

	svc := mcptools.NewEnergyService(engine, st, logger)
	logger.Info("MCP server starting", zap.String("addr", flags.Addr))
	fmt.Fprintf(os.Stderr, "greenlint MCP server listening on %s\n", flags.Addr)
	return mcptools.RunMCPServer(ctx, svc, flags.Addr)
}
