package ir

// The IR is a flat, single static assignment representation of a block's
// combinational and sequential behavior. Flat means arguments are always
// leaf values: expressions cannot nest, and a sub-expression needs an
// explicit temporary with its own target name.
//
// Downstream transformation passes historically assumed a nested pattern
// (Not over Not) that this IR cannot express; the flat form is the deliberate
// choice here, and the optimizer's matchers operate on single expressions
// only. See DESIGN.md for the recorded decision.

// Value is a leaf operand: a named wire or a literal. Width is contextual
// for literals and may be carried from the usage site.
type Value struct {
	Name      string
	BitWidth  int
	IsLiteral bool
	Literal   uint64
}

// Ref builds a named value reference.
func Ref(name string, width int) Value {
	return Value{Name: name, BitWidth: width}
}

// Lit builds a literal value at the given width.
func Lit(v uint64, width int) Value {
	return Value{IsLiteral: true, Literal: v, BitWidth: width}
}

// Equal reports operand identity: literals compare by value, references by
// name. Width is usage-contextual and not part of identity.
func (v Value) Equal(o Value) bool {
	if v.IsLiteral != o.IsLiteral {
		return false
	}
	if v.IsLiteral {
		return v.Literal == o.Literal
	}
	return v.Name == o.Name
}

// ExprKind enumerates the closed set of IR operations.
type ExprKind string

const (
	OpValue ExprKind = "value"
	OpNot   ExprKind = "not"
	OpAnd   ExprKind = "and"
	OpOr    ExprKind = "or"
	OpXor   ExprKind = "xor"
	OpAdd   ExprKind = "add"
	OpSub   ExprKind = "sub"
	OpMux   ExprKind = "mux"
	OpEq    ExprKind = "eq"
	OpNeq   ExprKind = "neq"
)

// ArityRange returns the permitted argument count per kind. Add accepts an
// optional third carry-in argument; Mux is always (sel, a, b); everything
// else is fixed.
func ArityRange(k ExprKind) (min, max int) {
	switch k {
	case OpValue, OpNot:
		return 1, 1
	case OpAdd:
		return 2, 3
	case OpMux:
		return 3, 3
	case OpAnd, OpOr, OpXor, OpSub, OpEq, OpNeq:
		return 2, 2
	}
	return 0, 0
}

// Expr is one combinational assignment: target = kind(args...).
type Expr struct {
	Kind   ExprKind
	Target string
	Args   []Value
}

// RegAssign is synchronous next-state logic: target captures expr on the
// given clock, cleared by the given reset. Clock and reset name input
// ports and may be empty when the block exposes none.
type RegAssign struct {
	Target string
	Expr   Expr
	Clock  string
	Reset  string
}

// Module is the IR of one block or node region. Invariant (single static
// assignment): every target name is unique across CombAssigns and
// RegAssigns, and every non-literal argument resolves to an input or to
// another assignment's target.
type Module struct {
	ID          string
	Inputs      []Value
	Outputs     []Value
	CombAssigns []Expr
	RegAssigns  []RegAssign
}

// Clone deep-copies a module. The optimizer rewrites clones so callers keep
// the original for diffing and verification.
func (m *Module) Clone() *Module {
	out := &Module{
		ID:      m.ID,
		Inputs:  append([]Value{}, m.Inputs...),
		Outputs: append([]Value{}, m.Outputs...),
	}
	for _, e := range m.CombAssigns {
		out.CombAssigns = append(out.CombAssigns, cloneExpr(e))
	}
	for _, r := range m.RegAssigns {
		out.RegAssigns = append(out.RegAssigns, RegAssign{
			Target: r.Target,
			Expr:   cloneExpr(r.Expr),
			Clock:  r.Clock,
			Reset:  r.Reset,
		})
	}
	return out
}

func cloneExpr(e Expr) Expr {
	return Expr{Kind: e.Kind, Target: e.Target, Args: append([]Value{}, e.Args...)}
}

// WidthOf resolves the usage width of a name: input and output declarations
// are authoritative, assignment targets default to their first argument's
// width. Returns -1 for unknown names.
func (m *Module) WidthOf(name string) int {
	for _, v := range m.Inputs {
		if v.Name == name {
			return v.BitWidth
		}
	}
	for _, v := range m.Outputs {
		if v.Name == name {
			return v.BitWidth
		}
	}
	for _, e := range m.CombAssigns {
		if e.Target == name && len(e.Args) > 0 {
			return e.Args[0].BitWidth
		}
	}
	for _, r := range m.RegAssigns {
		if r.Target == name && len(r.Expr.Args) > 0 {
			return r.Expr.Args[0].BitWidth
		}
	}
	return -1
}
