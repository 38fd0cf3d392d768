package ir

import (
	"fmt"
	"strings"
)

// Pretty-printer for IR modules, used by the CLI report, daemon responses,
// and test output.

// Print renders a module in the textual IR form:
//
//	module blk1 {
//	  input A: w4
//	  input B: w4
//	  output SUM: w4
//	  SUM = add(A, B, CIN)
//	  Q <= value(D) @clk /rst
//	}
func Print(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s {\n", m.ID)
	for _, v := range m.Inputs {
		fmt.Fprintf(&b, "  input %s\n", formatDecl(v))
	}
	for _, v := range m.Outputs {
		fmt.Fprintf(&b, "  output %s\n", formatDecl(v))
	}
	for _, e := range m.CombAssigns {
		fmt.Fprintf(&b, "  %s = %s\n", e.Target, FormatExpr(e))
	}
	for _, r := range m.RegAssigns {
		fmt.Fprintf(&b, "  %s <= %s%s\n", r.Target, FormatExpr(r.Expr), formatSync(r))
	}
	b.WriteString("}\n")
	return b.String()
}

// FormatExpr renders the right-hand side of an assignment.
func FormatExpr(e Expr) string {
	args := make([]string, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, FormatValue(a))
	}
	return fmt.Sprintf("%s(%s)", e.Kind, strings.Join(args, ", "))
}

// FormatValue renders a leaf operand: literals as #value, references by
// name.
func FormatValue(v Value) string {
	if v.IsLiteral {
		return fmt.Sprintf("#%d", v.Literal)
	}
	return v.Name
}

func formatDecl(v Value) string {
	if v.BitWidth > 0 {
		return fmt.Sprintf("%s: w%d", v.Name, v.BitWidth)
	}
	return v.Name
}

func formatSync(r RegAssign) string {
	var b strings.Builder
	if r.Clock != "" {
		fmt.Fprintf(&b, " @%s", r.Clock)
	}
	if r.Reset != "" {
		fmt.Fprintf(&b, " /%s", r.Reset)
	}
	return b.String()
}
