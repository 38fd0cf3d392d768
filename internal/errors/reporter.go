package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiagLevel represents the severity of a diagnostic.
type DiagLevel string

const (
	LevelWarning DiagLevel = "warning"
	LevelNote    DiagLevel = "note"
)

// Diagnostic is a non-fatal finding surfaced while analyzing a snapshot,
// e.g. a wire that carries no signal flow. Diagnostics never abort the
// pipeline; they ride along on its results.
type Diagnostic struct {
	Level   DiagLevel
	Code    string
	Subject string // entity the finding is about, e.g. a wire id
	Message string
}

func (d Diagnostic) String() string {
	if d.Subject != "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Level, d.Code, d.Subject, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Level, d.Code, d.Message)
}

// Reporter formats errors and diagnostics for terminal output.
type Reporter struct {
	circuit string
}

// NewReporter creates a reporter for output about the named circuit.
func NewReporter(circuit string) *Reporter {
	return &Reporter{circuit: circuit}
}

// FormatError renders a structured error in the CLI's error style.
func (r *Reporter) FormatError(err error) string {
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	var e *Error
	if !asError(err, &e) {
		return fmt.Sprintf("%s: %s\n", red("error"), err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", red("error"), e.Message)
	fmt.Fprintf(&b, "  ┌─ %s\n", r.circuit)
	fmt.Fprintf(&b, "  │ kind: %s\n", bold(string(e.Kind)))
	if e.Code != "" {
		fmt.Fprintf(&b, "  │ code: %s (%s)\n", bold(e.Code), Describe(e.Code))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatDiagnostic renders one diagnostic line.
func (r *Reporter) FormatDiagnostic(d Diagnostic) string {
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	level := yellow(string(d.Level))
	if d.Level == LevelNote {
		level = cyan(string(d.Level))
	}
	if d.Subject != "" {
		return fmt.Sprintf("%s[%s] %s: %s\n", level, d.Code, d.Subject, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s\n", level, d.Code, d.Message)
}

// FormatDiagnostics renders a diagnostic list, or nothing when empty.
func (r *Reporter) FormatDiagnostics(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(r.FormatDiagnostic(d))
	}
	return b.String()
}
