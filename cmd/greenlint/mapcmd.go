package main

import (
	"context"
	"errors"
	"fmt"
)

const mapLimit = 10

// runMap prints project-wide rankings from a persistent energy map.
func runMap(flags cliFlags) error {
	if flags.DBPath == "" {
		return errors.New("-map requires -db pointing at an energy map database")
	}

	ctx := context.Background()
	st, err := openStore(flags.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Energy map: %d files, %d blocks, %d issues, average score %.1f\n\n",
		stats.FileCount, stats.BlockCount, stats.IssueCount, stats.AverageScore)

	worst, err := st.WorstFiles(ctx, mapLimit)
	if err != nil {
		return err
	}
	if len(worst) > 0 {
		fmt.Println("Worst files:")
		for _, f := range worst {
			fmt.Printf("  %3d/100 [%s] %s (%d issues)\n", f.Score, f.Grade, f.Path, f.IssueCount)
		}
		fmt.Println()
	}

	hotspots, err := st.ProjectHotspots(ctx, mapLimit)
	if err != nil {
		return err
	}
	if len(hotspots) > 0 {
		fmt.Println("Top hotspots:")
		for _, h := range hotspots {
			fmt.Printf("  %.2f/line %s:%d-%d (%s)\n", h.EnergyPerLine, h.Path, h.StartLine, h.EndLine, h.BlockType)
		}
	}
	return nil
}
