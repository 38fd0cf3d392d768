package ir

import (
	"fmt"
)

// Validate checks a module's structural invariants: per-kind arity, target
// uniqueness across all assignments, and that every non-literal argument
// resolves to an input, or to another assignment's target. Builders validate
// what they synthesize; the optimizer validates its output in tests.
func Validate(m *Module) error {
	targets := map[string]bool{}
	declare := func(name string) error {
		if name == "" {
			return fmt.Errorf("module %s: assignment with empty target", m.ID)
		}
		if targets[name] {
			return fmt.Errorf("module %s: duplicate assignment target %q", m.ID, name)
		}
		targets[name] = true
		return nil
	}
	for _, e := range m.CombAssigns {
		if err := declare(e.Target); err != nil {
			return err
		}
	}
	for _, r := range m.RegAssigns {
		if err := declare(r.Target); err != nil {
			return err
		}
	}

	inputs := map[string]bool{}
	for _, v := range m.Inputs {
		inputs[v.Name] = true
	}

	checkExpr := func(e Expr) error {
		min, max := ArityRange(e.Kind)
		if max == 0 {
			return fmt.Errorf("module %s: unknown expression kind %q", m.ID, e.Kind)
		}
		if len(e.Args) < min || len(e.Args) > max {
			return fmt.Errorf("module %s: %s on %q takes %d..%d args, got %d",
				m.ID, e.Kind, e.Target, min, max, len(e.Args))
		}
		for _, a := range e.Args {
			if a.IsLiteral {
				continue
			}
			if !inputs[a.Name] && !targets[a.Name] {
				return fmt.Errorf("module %s: argument %q of %q resolves to no input or target",
					m.ID, a.Name, e.Target)
			}
		}
		return nil
	}
	for _, e := range m.CombAssigns {
		if err := checkExpr(e); err != nil {
			return err
		}
	}
	for _, r := range m.RegAssigns {
		if err := checkExpr(r.Expr); err != nil {
			return err
		}
	}
	return nil
}
