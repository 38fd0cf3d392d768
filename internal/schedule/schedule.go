package schedule

// Depth-based stage scheduling: every IR operation gets a pipeline stage
// index respecting dependency order. Depths come from fixed-point relaxation
// over the combinational assignments; stages spread depths proportionally
// over the requested stage count. Register assignments always land in the
// last stage: state capture ends the current pipeline step, and cross-stage
// register retiming is downstream's concern, not this scheduler's.

import (
	"silica/internal/errors"
	"silica/internal/graph"
	"silica/internal/ir"
)

// Policy selects how stage indices are assigned.
type Policy string

const (
	// DepthProportional spreads operations over StageCount stages in
	// proportion to their timing depth.
	DepthProportional Policy = "depth_proportional"

	// SingleStage forces every operation into stage 0.
	SingleStage Policy = "single_stage"

	// FixedStageCount applies the proportional formula with exactly the
	// requested stage count.
	FixedStageCount Policy = "fixed_stage_count"
)

// Config selects the scheduling policy and stage count.
type Config struct {
	Policy     Policy
	StageCount int
}

// CombOp is a combinational assignment with its assigned stage.
type CombOp struct {
	Expr  ir.Expr
	Stage int
}

// RegOp is a register assignment with its assigned stage.
type RegOp struct {
	Reg   ir.RegAssign
	Stage int
}

// Module is a scheduled IR module. Invariant: every op's stage is at least
// the stage of each of its non-literal arguments' producers.
type Module struct {
	ID        string
	NumStages int
	CombOps   []CombOp
	RegOps    []RegOp
}

// ComputeTimingDepths assigns a depth to every combinational target by
// fixed-point relaxation: inputs seed at depth 0, an expression is ready
// once every non-literal argument has a known depth, and its depth is then
// 1 + the maximum argument depth (0 with no non-literal arguments).
//
// This is longest-path over a DAG written as repeated full scans; a
// queue-based topological sort would be faster and must produce identical
// numbers, so the simple form stays until module sizes demand otherwise.
func ComputeTimingDepths(m *ir.Module) map[string]int {
	depths := map[string]int{}
	for _, v := range m.Inputs {
		depths[v.Name] = 0
	}

	for changed := true; changed; {
		changed = false
		for _, e := range m.CombAssigns {
			if _, done := depths[e.Target]; done {
				continue
			}
			depth, ready := exprDepth(e, depths)
			if !ready {
				continue
			}
			depths[e.Target] = depth
			changed = true
		}
	}
	return depths
}

func exprDepth(e ir.Expr, depths map[string]int) (int, bool) {
	max := -1
	for _, a := range e.Args {
		if a.IsLiteral {
			continue
		}
		d, ok := depths[a.Name]
		if !ok {
			return 0, false
		}
		if d > max {
			max = d
		}
	}
	if max < 0 {
		// No non-literal arguments: ready at depth 0.
		return 0, true
	}
	return max + 1, true
}

// AssignStages maps depths onto stage indices:
//
//	stage = clamp(depth * numStages / (maxDepth+1), 0, numStages-1)
//
// SingleStage collapses everything to one stage; FixedStageCount runs the
// same formula with the configured count. Register assignments go to the
// last stage unconditionally.
func AssignStages(m *ir.Module, depths map[string]int, numStages int, cfg Config) *Module {
	stages := numStages
	switch cfg.Policy {
	case SingleStage:
		stages = 1
	case FixedStageCount:
		stages = cfg.StageCount
	}
	if stages < 1 {
		stages = 1
	}

	maxDepth := 0
	for _, e := range m.CombAssigns {
		if d := depths[e.Target]; d > maxDepth {
			maxDepth = d
		}
	}

	out := &Module{ID: m.ID, NumStages: stages}
	for _, e := range m.CombAssigns {
		stage := depths[e.Target] * stages / (maxDepth + 1)
		if stage < 0 {
			stage = 0
		}
		if stage > stages-1 {
			stage = stages - 1
		}
		out.CombOps = append(out.CombOps, CombOp{Expr: e, Stage: stage})
	}
	for _, r := range m.RegAssigns {
		out.RegOps = append(out.RegOps, RegOp{Reg: r, Stage: stages - 1})
	}
	return out
}

// BuildSchedule computes depths and assigns stages in one step. The graph
// parameter is accepted for finer-grained, wire-delay-aware depth
// estimation later; the depth model implemented today does not consult it.
func BuildSchedule(m *ir.Module, g *graph.Graph, cfg Config) (*Module, error) {
	_ = g
	if cfg.Policy != SingleStage && cfg.StageCount < 1 {
		return nil, errors.InvalidArgumentf(errors.CodeBadStageCount,
			"stage count must be at least 1, got %d", cfg.StageCount)
	}
	depths := ComputeTimingDepths(m)
	return AssignStages(m, depths, cfg.StageCount, cfg), nil
}
