package ir

// Equivalence-preserving rewrite passes. Each pass runs once over every
// assignment; passes are individually idempotent but the pass list is not
// driven to a fixed point automatically. One pass's output can expose new
// opportunities for an earlier pass, so callers wanting maximal
// simplification re-run the list until a round reports zero changes
// (OptimizeToFixedPoint does exactly that).

import (
	"silica/internal/errors"
)

// Pass is a single rewrite transformation.
type Pass interface {
	Name() string
	Description() string
	// Apply rewrites the module in place and returns the number of
	// assignments changed.
	Apply(m *Module) (int, error)
}

// PassSummary records one pass execution. A failing pass leaves the module
// untouched and does not abort the passes after it.
type PassSummary struct {
	Pass    string
	Success bool
	Changes int
	Error   string
}

// OptimizeResult pairs the untouched input with the rewritten module and
// the per-pass record.
type OptimizeResult struct {
	Original  *Module
	Optimized *Module
	Summaries []PassSummary
}

// TotalChanges sums the changes of all successful passes.
func (r *OptimizeResult) TotalChanges() int {
	total := 0
	for _, s := range r.Summaries {
		if s.Success {
			total += s.Changes
		}
	}
	return total
}

// OptimizeModule runs the passes once each, in caller order, over a clone of
// the module. The input module is never mutated.
func OptimizeModule(m *Module, passes []Pass) (*OptimizeResult, error) {
	if m == nil {
		return nil, errors.InvalidArgumentf("", "nil module")
	}
	result := &OptimizeResult{Original: m, Optimized: m.Clone()}
	for _, pass := range passes {
		// Apply to a scratch clone so a failing pass cannot leave the
		// module half-rewritten.
		scratch := result.Optimized.Clone()
		changes, err := pass.Apply(scratch)
		if err != nil {
			result.Summaries = append(result.Summaries, PassSummary{
				Pass: pass.Name(), Success: false, Error: err.Error(),
			})
			continue
		}
		result.Optimized = scratch
		result.Summaries = append(result.Summaries, PassSummary{
			Pass: pass.Name(), Success: true, Changes: changes,
		})
	}
	return result, nil
}

// OptimizeToFixedPoint re-runs the pass list until a round makes no change.
// Summaries accumulate across rounds.
func OptimizeToFixedPoint(m *Module, passes []Pass) (*OptimizeResult, error) {
	result, err := OptimizeModule(m, passes)
	if err != nil {
		return nil, err
	}
	for round := roundChanges(result.Summaries); round > 0; {
		next, err := OptimizeModule(result.Optimized, passes)
		if err != nil {
			return nil, err
		}
		result.Optimized = next.Optimized
		result.Summaries = append(result.Summaries, next.Summaries...)
		round = roundChanges(next.Summaries)
	}
	return result, nil
}

func roundChanges(summaries []PassSummary) int {
	total := 0
	for _, s := range summaries {
		if s.Success {
			total += s.Changes
		}
	}
	return total
}

// DefaultPasses returns the full pass list in its standard order.
func DefaultPasses() []Pass {
	return []Pass{
		&SimplifyAlgebraic{},
		&FoldConstants{},
		&SimplifyMux{},
		&EliminateTrivialLogic{},
	}
}

// PassByName resolves a pass identifier from a request.
func PassByName(name string) (Pass, error) {
	switch name {
	case "simplify_algebraic":
		return &SimplifyAlgebraic{}, nil
	case "fold_constants":
		return &FoldConstants{}, nil
	case "simplify_mux":
		return &SimplifyMux{}, nil
	case "eliminate_trivial":
		return &EliminateTrivialLogic{}, nil
	}
	return nil, errors.InvalidArgumentf(errors.CodeUnknownPass,
		"unknown optimization pass %q", name)
}

// rewriteAssigns applies fn to every comb and reg expression, counting
// rewrites.
func rewriteAssigns(m *Module, fn func(m *Module, e Expr) (Expr, bool)) int {
	changes := 0
	for i := range m.CombAssigns {
		if next, changed := fn(m, m.CombAssigns[i]); changed {
			m.CombAssigns[i] = next
			changes++
		}
	}
	for i := range m.RegAssigns {
		if next, changed := fn(m, m.RegAssigns[i].Expr); changed {
			m.RegAssigns[i].Expr = next
			changes++
		}
	}
	return changes
}

// SimplifyAlgebraic rewrites idempotent and self-annihilating identities:
// X&X → X, X|X → X, X^X → 0 at the target's width.
type SimplifyAlgebraic struct{}

func (p *SimplifyAlgebraic) Name() string { return "SimplifyAlgebraic" }
func (p *SimplifyAlgebraic) Description() string {
	return "Rewrites X&X and X|X to X, X^X to a zero literal"
}

func (p *SimplifyAlgebraic) Apply(m *Module) (int, error) {
	return rewriteAssigns(m, func(m *Module, e Expr) (Expr, bool) {
		if len(e.Args) != 2 || !e.Args[0].Equal(e.Args[1]) {
			return e, false
		}
		switch e.Kind {
		case OpAnd, OpOr:
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{e.Args[0]}}, true
		case OpXor:
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{Lit(0, m.WidthOf(e.Target))}}, true
		}
		return e, false
	}), nil
}

// FoldConstants evaluates operations whose operands are all literals, using
// unsigned 64-bit arithmetic; Not additionally masks to the operand width.
// A Mux with a literal selector collapses unconditionally to the selected
// branch, literal or not.
type FoldConstants struct{}

func (p *FoldConstants) Name() string { return "FoldConstants" }
func (p *FoldConstants) Description() string {
	return "Evaluates all-literal operations and literal-selector muxes"
}

func (p *FoldConstants) Apply(m *Module) (int, error) {
	return rewriteAssigns(m, func(m *Module, e Expr) (Expr, bool) {
		if e.Kind == OpMux && e.Args[0].IsLiteral {
			chosen := e.Args[2]
			if e.Args[0].Literal != 0 {
				chosen = e.Args[1]
			}
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{chosen}}, true
		}
		if e.Kind == OpValue || e.Kind == OpMux || !allLiteral(e.Args) {
			return e, false
		}
		folded, ok := foldLiteral(m, e)
		if !ok {
			return e, false
		}
		return Expr{Kind: OpValue, Target: e.Target, Args: []Value{folded}}, true
	}), nil
}

func allLiteral(args []Value) bool {
	for _, a := range args {
		if !a.IsLiteral {
			return false
		}
	}
	return true
}

func foldLiteral(m *Module, e Expr) (Value, bool) {
	width := m.WidthOf(e.Target)
	a := e.Args[0].Literal
	var out uint64
	switch e.Kind {
	case OpNot:
		out = ^a & widthMask(literalWidth(m, e))
	case OpAnd:
		out = a & e.Args[1].Literal
	case OpOr:
		out = a | e.Args[1].Literal
	case OpXor:
		out = a ^ e.Args[1].Literal
	case OpAdd:
		out = a + e.Args[1].Literal
		if len(e.Args) == 3 {
			out += e.Args[2].Literal
		}
	case OpSub:
		out = a - e.Args[1].Literal
	case OpEq:
		out = boolBit(a == e.Args[1].Literal)
	case OpNeq:
		out = boolBit(a != e.Args[1].Literal)
	default:
		return Value{}, false
	}
	return Lit(out, width), true
}

func literalWidth(m *Module, e Expr) int {
	if w := e.Args[0].BitWidth; w > 0 {
		return w
	}
	return m.WidthOf(e.Target)
}

func widthMask(width int) uint64 {
	if width <= 0 || width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// SimplifyMux collapses selections between identical branches:
// Mux(sel, A, A) → A.
type SimplifyMux struct{}

func (p *SimplifyMux) Name() string { return "SimplifyMux" }
func (p *SimplifyMux) Description() string {
	return "Collapses muxes whose branches are identical"
}

func (p *SimplifyMux) Apply(m *Module) (int, error) {
	return rewriteAssigns(m, func(m *Module, e Expr) (Expr, bool) {
		if e.Kind != OpMux || !e.Args[1].Equal(e.Args[2]) {
			return e, false
		}
		return Expr{Kind: OpValue, Target: e.Target, Args: []Value{e.Args[1]}}, true
	}), nil
}

// EliminateTrivialLogic removes operations made trivial by literal
// self-identity: a binary op over two equal literals reduces directly. This
// pass deliberately recognizes nothing else yet; further triviality rules
// slot in here.
type EliminateTrivialLogic struct{}

func (p *EliminateTrivialLogic) Name() string { return "EliminateTrivialLogic" }
func (p *EliminateTrivialLogic) Description() string {
	return "Reduces binary operations over two equal literals"
}

func (p *EliminateTrivialLogic) Apply(m *Module) (int, error) {
	return rewriteAssigns(m, func(m *Module, e Expr) (Expr, bool) {
		if len(e.Args) != 2 || !e.Args[0].IsLiteral || !e.Args[1].IsLiteral {
			return e, false
		}
		if e.Args[0].Literal != e.Args[1].Literal {
			return e, false
		}
		width := m.WidthOf(e.Target)
		switch e.Kind {
		case OpAnd, OpOr:
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{e.Args[0]}}, true
		case OpXor, OpNeq, OpSub:
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{Lit(0, width)}}, true
		case OpEq:
			return Expr{Kind: OpValue, Target: e.Target, Args: []Value{Lit(1, width)}}, true
		}
		return e, false
	}), nil
}
