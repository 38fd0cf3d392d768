package pipeline

// Orchestrates the full analysis pipeline over one snapshot: graph → blocks
// → behavior → IR → optimization → schedule. Each stage is a pure function
// of its inputs; this package only wires them together and owns the single
// unknown-fault conversion point: a panic anywhere below surfaces as one
// InternalError here, never as a process abort.

import (
	"fmt"

	"silica/internal/behavior"
	"silica/internal/blocks"
	"silica/internal/circuit"
	"silica/internal/errors"
	"silica/internal/graph"
	"silica/internal/ir"
	"silica/internal/schedule"
)

// Options tunes one pipeline run. The zero value means: default pass list,
// single optimization round, 3-stage proportional schedule.
type Options struct {
	// Passes are optimization pass ids for ir.PassByName; empty runs the
	// default list.
	Passes []string

	// FixedPoint re-runs the pass list until a round changes nothing.
	FixedPoint bool

	Schedule schedule.Config
}

// BlockResult is everything the pipeline derived for one block.
type BlockResult struct {
	Block     blocks.Instance
	Behavior  *behavior.Descriptor
	Module    *ir.Module
	Optimized *ir.Module
	Summaries []ir.PassSummary

	// Preserved reports the behavior-preservation gate's verdict. When
	// false the optimized module was discarded and Scheduled reflects
	// the original.
	Preserved bool

	Scheduled *schedule.Module
}

// Report is the structured result of one pipeline run.
type Report struct {
	Circuit     string
	Graph       *graph.Graph
	Diagnostics []errors.Diagnostic
	Blocks      []BlockResult
}

// Run executes the pipeline over a snapshot.
func Run(c *circuit.Circuit, opts Options) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = errors.Internalf("pipeline panic: %v", r)
		}
	}()

	passes, err := resolvePasses(opts.Passes)
	if err != nil {
		return nil, err
	}
	cfg := normalizeSchedule(opts.Schedule)

	g, err := graph.BuildGraph(c)
	if err != nil {
		return nil, err
	}

	bg, err := blocks.DetectBlocks(g, c)
	if err != nil {
		return nil, err
	}

	report = &Report{Circuit: c.Name, Graph: g, Diagnostics: g.Diagnostics}
	for _, blk := range bg.Blocks {
		res, err := analyzeBlock(blk, g, passes, opts.FixedPoint, cfg)
		if err != nil {
			return nil, err
		}
		report.Blocks = append(report.Blocks, *res)
	}
	return report, nil
}

func analyzeBlock(blk blocks.Instance, g *graph.Graph, passes []ir.Pass, fixedPoint bool, cfg schedule.Config) (*BlockResult, error) {
	desc, err := behavior.InferBehaviorForBlock(&blk, g)
	if err != nil {
		return nil, err
	}

	module, err := ir.InferIrForBlock(&blk, g, desc)
	if err != nil {
		// Template bind failures degrade to interface declaration
		// only when the caller asked for full analysis of a snapshot;
		// other errors propagate.
		if !errors.IsKind(err, errors.Unsupported) {
			return nil, err
		}
		module = interfaceOnly(&blk)
	}

	optimized, err := optimize(module, passes, fixedPoint)
	if err != nil {
		return nil, err
	}

	res := &BlockResult{
		Block:     blk,
		Behavior:  desc,
		Module:    module,
		Optimized: optimized.Optimized,
		Summaries: optimized.Summaries,
		Preserved: true,
	}

	after := ir.DescriptorForModule(optimized.Optimized, desc)
	if verr := ir.VerifyOptimizationBehaviorPreserved(desc, after); verr != nil {
		res.Preserved = false
		res.Optimized = module
	}

	sched, err := schedule.BuildSchedule(res.Optimized, g, cfg)
	if err != nil {
		return nil, err
	}
	res.Scheduled = sched
	return res, nil
}

func optimize(m *ir.Module, passes []ir.Pass, fixedPoint bool) (*ir.OptimizeResult, error) {
	if fixedPoint {
		return ir.OptimizeToFixedPoint(m, passes)
	}
	return ir.OptimizeModule(m, passes)
}

// interfaceOnly declares a block's ports without guessing at its logic.
func interfaceOnly(blk *blocks.Instance) *ir.Module {
	m := &ir.Module{ID: blk.ID}
	for _, p := range blk.Ports {
		v := ir.Ref(p.Name, len(p.Pins))
		if p.Direction == circuit.DirOutput {
			m.Outputs = append(m.Outputs, v)
		} else {
			m.Inputs = append(m.Inputs, v)
		}
	}
	return m
}

func resolvePasses(names []string) ([]ir.Pass, error) {
	if len(names) == 0 {
		return ir.DefaultPasses(), nil
	}
	passes := make([]ir.Pass, 0, len(names))
	for _, name := range names {
		p, err := ir.PassByName(name)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}

func normalizeSchedule(cfg schedule.Config) schedule.Config {
	if cfg.Policy == "" {
		cfg.Policy = schedule.DepthProportional
	}
	// Only the unset zero value gets the default; an explicit bad count
	// is the caller's error and surfaces from BuildSchedule.
	if cfg.Policy != schedule.SingleStage && cfg.StageCount == 0 {
		cfg.StageCount = 3
	}
	return cfg
}

// Summary renders a one-line account of a block result for logs.
func (r *BlockResult) Summary() string {
	changes := 0
	for _, s := range r.Summaries {
		if s.Success {
			changes += s.Changes
		}
	}
	return fmt.Sprintf("%s %s: %d ports, %d rewrites, %d stages",
		r.Block.ID, r.Block.Kind, len(r.Block.Ports), changes, r.Scheduled.NumStages)
}
