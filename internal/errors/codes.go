package errors

// Stable codes for errors and diagnostics emitted by the analysis pipeline.
// Codes appear in daemon responses and CLI output and must not be renumbered.
//
// Code ranges:
// A0001-A0099: graph construction and node resolution
// A0100-A0199: block detection
// A0200-A0299: IR synthesis
// A0300-A0399: IR optimization
// A0400-A0499: scheduling
// A0500-A0599: netlist loading
// A0900-A0999: internal faults
// W0001-W0099: wiring diagnostics (non-fatal)

const (
	// A0001: a node reference did not resolve against the graph
	CodeNodeNotFound = "A0001"

	// A0002: a raw node id matched no component, pin, or net
	CodeUnresolvableID = "A0002"

	// A0003: a kind hint was given but no node of that kind+id exists
	CodeKindMismatch = "A0003"

	// A0100: a block reference did not resolve
	CodeBlockNotFound = "A0100"

	// A0200: a behavior template could not bind the block's ports
	CodeTemplateBindFailed = "A0200"

	// A0300: an optimization pass name is not recognized
	CodeUnknownPass = "A0300"

	// A0301: the behavior-preservation gate rejected an optimized module
	CodeBehaviorChanged = "A0301"

	// A0400: a stage count outside the accepted range
	CodeBadStageCount = "A0400"

	// A0500: netlist text failed to parse
	CodeNetlistSyntax = "A0500"

	// A0501: a netlist wire references an unknown component or pin
	CodeNetlistDanglingRef = "A0501"

	// A0900: unexpected internal fault, original diagnostic preserved
	CodeInternalFault = "A0900"

	// Wiring diagnostics (warnings, never fatal)

	// W0001: a wire joins two inputs or two outputs, so it carries no
	// signal flow
	DiagDegenerateWire = "W0001"

	// W0002: a wire endpoint names a component or pin absent from the
	// snapshot
	DiagDanglingEndpoint = "W0002"
)

// Describe returns a human-readable description of a code.
func Describe(code string) string {
	switch code {
	case CodeNodeNotFound:
		return "Node reference did not resolve against the circuit graph"
	case CodeUnresolvableID:
		return "Raw id matched no component, pin, or net"
	case CodeKindMismatch:
		return "No node with the hinted kind and id exists"
	case CodeBlockNotFound:
		return "Block reference did not resolve"
	case CodeTemplateBindFailed:
		return "Behavior template could not bind the block's ports"
	case CodeUnknownPass:
		return "Optimization pass name is not recognized"
	case CodeBehaviorChanged:
		return "Optimized module no longer matches its behavior descriptor"
	case CodeBadStageCount:
		return "Requested pipeline stage count is out of range"
	case CodeNetlistSyntax:
		return "Netlist text failed to parse"
	case CodeNetlistDanglingRef:
		return "Netlist wire references an unknown component or pin"
	case CodeInternalFault:
		return "Unexpected internal fault"
	case DiagDegenerateWire:
		return "Wire joins two inputs or two outputs and carries no signal flow"
	case DiagDanglingEndpoint:
		return "Wire endpoint names a component or pin absent from the snapshot"
	default:
		return "Unknown code"
	}
}

// IsDiagnostic reports whether the code names a non-fatal wiring diagnostic.
func IsDiagnostic(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}
