package ir

import (
	"fmt"
	"testing"

	"silica/internal/errors"
)

func singleAssign(e Expr, inputs ...Value) *Module {
	return &Module{
		ID:          "m",
		Inputs:      inputs,
		Outputs:     []Value{Ref(e.Target, 4)},
		CombAssigns: []Expr{e},
	}
}

func applyOnce(t *testing.T, p Pass, m *Module) *Module {
	t.Helper()
	result, err := OptimizeModule(m, []Pass{p})
	if err != nil {
		t.Fatalf("OptimizeModule failed: %v", err)
	}
	return result.Optimized
}

func TestSimplifyAlgebraicIdempotentOps(t *testing.T) {
	for _, kind := range []ExprKind{OpAnd, OpOr} {
		m := singleAssign(
			Expr{Kind: kind, Target: "Y", Args: []Value{Ref("A", 4), Ref("A", 4)}},
			Ref("A", 4),
		)
		out := applyOnce(t, &SimplifyAlgebraic{}, m)
		e := out.CombAssigns[0]
		if e.Kind != OpValue || e.Args[0].Name != "A" {
			t.Errorf("%s(A, A): got %s(%v), expected value(A)", kind, e.Kind, e.Args)
		}
	}
}

func TestSimplifyAlgebraicXorSelf(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpXor, Target: "Y", Args: []Value{Ref("A", 4), Ref("A", 4)}},
		Ref("A", 4),
	)
	out := applyOnce(t, &SimplifyAlgebraic{}, m)
	e := out.CombAssigns[0]
	if e.Kind != OpValue || !e.Args[0].IsLiteral || e.Args[0].Literal != 0 {
		t.Fatalf("A^A: got %s(%v), expected value(#0)", e.Kind, e.Args)
	}
	if e.Args[0].BitWidth != 4 {
		t.Errorf("zero literal width = %d, expected the target's 4", e.Args[0].BitWidth)
	}
}

func TestSimplifyAlgebraicLeavesDistinctArgs(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpAnd, Target: "Y", Args: []Value{Ref("A", 4), Ref("B", 4)}},
		Ref("A", 4), Ref("B", 4),
	)
	out := applyOnce(t, &SimplifyAlgebraic{}, m)
	if out.CombAssigns[0].Kind != OpAnd {
		t.Error("A&B must not be rewritten")
	}
}

func TestFoldConstants(t *testing.T) {
	cases := []struct {
		kind ExprKind
		args []Value
		want uint64
	}{
		{OpAnd, []Value{Lit(0b1100, 4), Lit(0b1010, 4)}, 0b1000},
		{OpOr, []Value{Lit(0b1100, 4), Lit(0b1010, 4)}, 0b1110},
		{OpXor, []Value{Lit(0b1100, 4), Lit(0b1010, 4)}, 0b0110},
		{OpAdd, []Value{Lit(3, 4), Lit(4, 4)}, 7},
		{OpAdd, []Value{Lit(3, 4), Lit(4, 4), Lit(1, 1)}, 8},
		{OpSub, []Value{Lit(9, 4), Lit(5, 4)}, 4},
		{OpEq, []Value{Lit(7, 4), Lit(7, 4)}, 1},
		{OpEq, []Value{Lit(7, 4), Lit(6, 4)}, 0},
		{OpNeq, []Value{Lit(7, 4), Lit(6, 4)}, 1},
		{OpNot, []Value{Lit(0b0101, 4)}, 0b1010},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s", tc.kind), func(t *testing.T) {
			m := singleAssign(Expr{Kind: tc.kind, Target: "Y", Args: tc.args})
			out := applyOnce(t, &FoldConstants{}, m)
			e := out.CombAssigns[0]
			if e.Kind != OpValue || !e.Args[0].IsLiteral {
				t.Fatalf("%s did not fold: %s(%v)", tc.kind, e.Kind, e.Args)
			}
			if e.Args[0].Literal != tc.want {
				t.Errorf("%s folded to %d, expected %d", tc.kind, e.Args[0].Literal, tc.want)
			}
		})
	}
}

func TestFoldConstantsMuxLiteralSelector(t *testing.T) {
	// nonzero selector picks the first branch even when branches are refs
	m := singleAssign(
		Expr{Kind: OpMux, Target: "Y", Args: []Value{Lit(1, 1), Ref("A", 4), Ref("B", 4)}},
		Ref("A", 4), Ref("B", 4),
	)
	out := applyOnce(t, &FoldConstants{}, m)
	e := out.CombAssigns[0]
	if e.Kind != OpValue || e.Args[0].Name != "A" {
		t.Errorf("mux(#1, A, B): got %s(%v), expected value(A)", e.Kind, e.Args)
	}

	m = singleAssign(
		Expr{Kind: OpMux, Target: "Y", Args: []Value{Lit(0, 1), Ref("A", 4), Ref("B", 4)}},
		Ref("A", 4), Ref("B", 4),
	)
	out = applyOnce(t, &FoldConstants{}, m)
	if out.CombAssigns[0].Args[0].Name != "B" {
		t.Errorf("mux(#0, A, B) must pick B")
	}
}

func TestFoldConstantsSkipsNonLiteral(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpAdd, Target: "Y", Args: []Value{Ref("A", 4), Lit(1, 4)}},
		Ref("A", 4),
	)
	out := applyOnce(t, &FoldConstants{}, m)
	if out.CombAssigns[0].Kind != OpAdd {
		t.Error("mixed-operand add must not fold")
	}
}

func TestFoldConstantsIdempotent(t *testing.T) {
	m := singleAssign(Expr{Kind: OpAdd, Target: "Y", Args: []Value{Lit(2, 4), Lit(3, 4)}})
	pass := &FoldConstants{}

	first, err := OptimizeModule(m, []Pass{pass})
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalChanges() != 1 {
		t.Fatalf("first run changes = %d, expected 1", first.TotalChanges())
	}
	second, err := OptimizeModule(first.Optimized, []Pass{pass})
	if err != nil {
		t.Fatal(err)
	}
	if second.TotalChanges() != 0 {
		t.Errorf("second run changes = %d, expected 0", second.TotalChanges())
	}
}

func TestSimplifyMux(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpMux, Target: "Y", Args: []Value{Ref("SEL", 1), Ref("A", 4), Ref("A", 4)}},
		Ref("SEL", 1), Ref("A", 4),
	)
	out := applyOnce(t, &SimplifyMux{}, m)
	e := out.CombAssigns[0]
	if e.Kind != OpValue || e.Args[0].Name != "A" {
		t.Errorf("mux(SEL, A, A): got %s(%v), expected value(A)", e.Kind, e.Args)
	}

	m = singleAssign(
		Expr{Kind: OpMux, Target: "Y", Args: []Value{Ref("SEL", 1), Ref("A", 4), Ref("B", 4)}},
		Ref("SEL", 1), Ref("A", 4), Ref("B", 4),
	)
	out = applyOnce(t, &SimplifyMux{}, m)
	if out.CombAssigns[0].Kind != OpMux {
		t.Error("mux with distinct branches must survive")
	}
}

func TestEliminateTrivialLogic(t *testing.T) {
	cases := []struct {
		kind    ExprKind
		want    uint64
		literal bool
	}{
		{OpAnd, 5, true},
		{OpOr, 5, true},
		{OpXor, 0, true},
		{OpSub, 0, true},
		{OpNeq, 0, true},
		{OpEq, 1, true},
	}
	for _, tc := range cases {
		m := singleAssign(Expr{Kind: tc.kind, Target: "Y", Args: []Value{Lit(5, 4), Lit(5, 4)}})
		out := applyOnce(t, &EliminateTrivialLogic{}, m)
		e := out.CombAssigns[0]
		if e.Kind != OpValue || !e.Args[0].IsLiteral || e.Args[0].Literal != tc.want {
			t.Errorf("%s(#5, #5): got %s(%v), expected value(#%d)", tc.kind, e.Kind, e.Args, tc.want)
		}
	}
}

func TestOptimizeModuleDoesNotMutateInput(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpAnd, Target: "Y", Args: []Value{Ref("A", 4), Ref("A", 4)}},
		Ref("A", 4),
	)
	result, err := OptimizeModule(m, DefaultPasses())
	if err != nil {
		t.Fatal(err)
	}
	if m.CombAssigns[0].Kind != OpAnd {
		t.Error("input module mutated")
	}
	if result.Original != m {
		t.Error("result must reference the original module")
	}
	if result.Optimized.CombAssigns[0].Kind != OpValue {
		t.Error("optimized clone not rewritten")
	}
}

// failingPass aborts to exercise partial-failure reporting.
type failingPass struct{}

func (failingPass) Name() string        { return "Exploder" }
func (failingPass) Description() string { return "always fails" }
func (failingPass) Apply(m *Module) (int, error) {
	m.CombAssigns = nil // must never become visible
	return 0, errors.Internalf("boom")
}

func TestOptimizeModulePartialFailure(t *testing.T) {
	m := singleAssign(
		Expr{Kind: OpOr, Target: "Y", Args: []Value{Ref("A", 4), Ref("A", 4)}},
		Ref("A", 4),
	)
	passes := []Pass{failingPass{}, &SimplifyAlgebraic{}}
	result, err := OptimizeModule(m, passes)
	if err != nil {
		t.Fatalf("pass failure must not abort the run: %v", err)
	}

	if len(result.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(result.Summaries))
	}
	fail := result.Summaries[0]
	if fail.Success || fail.Error == "" {
		t.Errorf("failing pass summary = %+v", fail)
	}
	ok := result.Summaries[1]
	if !ok.Success || ok.Changes != 1 {
		t.Errorf("later pass must still run: %+v", ok)
	}
	// the failing pass's half-applied rewrite is discarded
	if len(result.Optimized.CombAssigns) != 1 {
		t.Error("failed pass leaked its mutation")
	}
	if result.Optimized.CombAssigns[0].Kind != OpValue {
		t.Error("surviving pass did not apply")
	}
}

func TestOptimizeToFixedPoint(t *testing.T) {
	// both assignments reduce to plain values once the rounds settle
	m := &Module{
		ID:     "m",
		Inputs: []Value{Ref("A", 4)},
		Outputs: []Value{
			Ref("Y", 1),
		},
		CombAssigns: []Expr{
			{Kind: OpXor, Target: "T", Args: []Value{Ref("A", 4), Ref("A", 4)}},
			{Kind: OpEq, Target: "Y", Args: []Value{Lit(0, 4), Lit(0, 4)}},
		},
	}
	result, err := OptimizeToFixedPoint(m, DefaultPasses())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range result.Optimized.CombAssigns {
		if e.Kind != OpValue {
			t.Errorf("fixed point not reached: %s = %s", e.Target, e.Kind)
		}
	}
	if err := Validate(result.Optimized); err != nil {
		t.Errorf("optimized module invalid: %v", err)
	}
}

func TestPassByName(t *testing.T) {
	for _, name := range []string{"simplify_algebraic", "fold_constants", "simplify_mux", "eliminate_trivial"} {
		p, err := PassByName(name)
		if err != nil {
			t.Errorf("PassByName(%q) failed: %v", name, err)
		} else if p.Name() == "" || p.Description() == "" {
			t.Errorf("pass %q lacks metadata", name)
		}
	}

	_, err := PassByName("inline_everything")
	if !errors.IsKind(err, errors.InvalidArgument) {
		t.Errorf("unknown pass kind = %s, expected invalid_argument", errors.KindOf(err))
	}
}

func TestRegAssignsAreRewritten(t *testing.T) {
	m := &Module{
		ID:     "m",
		Inputs: []Value{Ref("D", 4), Ref("CLK", 1)},
		Outputs: []Value{
			Ref("Q", 4),
		},
		RegAssigns: []RegAssign{
			{Target: "Q", Clock: "CLK", Expr: Expr{Kind: OpOr, Target: "Q", Args: []Value{Ref("D", 4), Ref("D", 4)}}},
		},
	}
	out := applyOnce(t, &SimplifyAlgebraic{}, m)
	r := out.RegAssigns[0]
	if r.Expr.Kind != OpValue || r.Expr.Args[0].Name != "D" {
		t.Errorf("reg expr not rewritten: %v", r.Expr)
	}
	if r.Clock != "CLK" {
		t.Error("sync binding lost")
	}
}
