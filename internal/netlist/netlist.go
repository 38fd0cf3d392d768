package netlist

// Loader for the structural netlist text format, the input surface for the
// CLI, the daemon, and integration tests. The format describes connectivity
// only (components with named pins, nets joining two pin endpoints) and
// carries no behavioral constructs.
//
//	circuit full_adder
//	comp X1 XOR in(A, B) out(Y)
//	comp X2 XOR in(A, B) out(Y)
//	net c1 X1:Y -> X2:A

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"silica/internal/circuit"
	"silica/internal/errors"
)

var netlistLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Arrow", Pattern: `->`, Action: nil},
		{Name: "Punctuation", Pattern: `[():,]`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})

var parser = participle.MustBuild[File](
	participle.Lexer(netlistLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// File is the parsed netlist AST.
type File struct {
	Name       string       `parser:"\"circuit\" @Ident"`
	Statements []*Statement `parser:"@@*"`
}

type Statement struct {
	Comp *CompDecl `parser:"  @@"`
	Net  *NetDecl  `parser:"| @@"`
}

type CompDecl struct {
	ID      string   `parser:"\"comp\" @Ident"`
	Type    string   `parser:"@Ident"`
	Inputs  []string `parser:"\"in\" \"(\" ( @Ident ( \",\" @Ident )* )? \")\""`
	Outputs []string `parser:"\"out\" \"(\" ( @Ident ( \",\" @Ident )* )? \")\""`
}

type NetDecl struct {
	ID string `parser:"\"net\" @Ident"`
	A  *Ref   `parser:"@@ \"->\""`
	B  *Ref   `parser:"@@"`
}

type Ref struct {
	Component string `parser:"@Ident \":\""`
	Pin       string `parser:"@Ident"`
}

// Parse parses netlist text. Syntax failures are InvalidArgument with the
// parser's position in the message.
func Parse(filename, source string) (*File, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			pos := pe.Position()
			return nil, errors.InvalidArgumentf(errors.CodeNetlistSyntax,
				"%s:%d:%d: %s", pos.Filename, pos.Line, pos.Column, pe.Message())
		}
		return nil, errors.InvalidArgumentf(errors.CodeNetlistSyntax, "%v", err)
	}
	return file, nil
}

// Load parses netlist text and materializes the circuit snapshot,
// validating that every net endpoint references a declared component pin.
func Load(filename, source string) (*circuit.Circuit, error) {
	file, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}

	c := &circuit.Circuit{Name: file.Name}
	for _, st := range file.Statements {
		if st.Comp == nil {
			continue
		}
		if _, dup := c.FindComponent(st.Comp.ID); dup {
			return nil, errors.InvalidArgumentf(errors.CodeNetlistSyntax,
				"duplicate component id %q", st.Comp.ID)
		}
		comp := circuit.Component{ID: st.Comp.ID, Type: st.Comp.Type}
		for _, p := range st.Comp.Inputs {
			comp.Inputs = append(comp.Inputs, circuit.Pin{Name: p})
		}
		for _, p := range st.Comp.Outputs {
			comp.Outputs = append(comp.Outputs, circuit.Pin{Name: p})
		}
		c.Components = append(c.Components, comp)
	}

	for _, st := range file.Statements {
		if st.Net == nil {
			continue
		}
		for _, ref := range []*Ref{st.Net.A, st.Net.B} {
			comp, ok := c.FindComponent(ref.Component)
			if !ok {
				return nil, errors.InvalidArgumentf(errors.CodeNetlistDanglingRef,
					"net %q references unknown component %q", st.Net.ID, ref.Component)
			}
			if !comp.HasPin(ref.Pin) {
				return nil, errors.InvalidArgumentf(errors.CodeNetlistDanglingRef,
					"net %q references unknown pin %s:%s", st.Net.ID, ref.Component, ref.Pin)
			}
		}
		c.Wires = append(c.Wires, circuit.Wire{
			ID: st.Net.ID,
			A:  circuit.Endpoint{Component: st.Net.A.Component, Pin: st.Net.A.Pin},
			B:  circuit.Endpoint{Component: st.Net.B.Component, Pin: st.Net.B.Pin},
		})
	}
	return c, nil
}
