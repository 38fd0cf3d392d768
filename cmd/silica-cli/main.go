// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"silica/internal/errors"
	"silica/internal/ir"
	"silica/internal/netlist"
	"silica/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: silica-cli <file.snl>")
		os.Exit(1)
	}

	startTime := time.Now()
	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	reporter := errors.NewReporter(path)

	circ, err := netlist.Load(path, string(source))
	if err != nil {
		fmt.Print(reporter.FormatError(err))
		color.Red("Analysis failed after %s", formatDuration(time.Since(startTime)))
		os.Exit(1)
	}

	report, err := pipeline.Run(circ, pipeline.Options{FixedPoint: true})
	if err != nil {
		fmt.Print(reporter.FormatError(err))
		color.Red("Analysis failed after %s", formatDuration(time.Since(startTime)))
		os.Exit(1)
	}

	fmt.Print(reporter.FormatDiagnostics(report.Diagnostics))
	printReport(report)

	color.Green("Analyzed %s (%d blocks) in %s",
		report.Circuit, len(report.Blocks), formatDuration(time.Since(startTime)))
}

func printReport(report *pipeline.Report) {
	bold := color.New(color.Bold).SprintFunc()
	for _, blk := range report.Blocks {
		fmt.Printf("%s %s  %s\n", bold(blk.Block.ID), blk.Block.Kind, blk.Behavior.Description)
		for _, p := range blk.Block.Ports {
			fmt.Printf("  port %s (%s, %d pins)\n", p.Name, p.Direction, len(p.Pins))
		}
		fmt.Print(indent(ir.Print(blk.Optimized)))
		for _, s := range blk.Summaries {
			if !s.Success {
				fmt.Printf("  pass %s failed: %s\n", s.Pass, s.Error)
			} else if s.Changes > 0 {
				fmt.Printf("  pass %s: %d rewrites\n", s.Pass, s.Changes)
			}
		}
		if !blk.Preserved {
			color.Yellow("  optimization discarded: behavior not preserved")
		}
		fmt.Printf("  schedule: %d stages\n", blk.Scheduled.NumStages)
		for _, op := range blk.Scheduled.CombOps {
			fmt.Printf("    stage %d  %s\n", op.Stage, op.Expr.Target)
		}
		for _, op := range blk.Scheduled.RegOps {
			fmt.Printf("    stage %d  %s (reg)\n", op.Stage, op.Reg.Target)
		}
		fmt.Println()
	}
}

func indent(s string) string {
	out := "  "
	for i, r := range s {
		out += string(r)
		if r == '\n' && i != len(s)-1 {
			out += "  "
		}
	}
	return out
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
