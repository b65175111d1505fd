package toolrec

// Severity classifies a diagnostic. The two values are mutually exclusive.
type Severity string

const (
	// SeverityError marks a diagnostic that fails the invocation's intent.
	SeverityError Severity = "error"
	// SeverityWarning marks a non-fatal diagnostic.
	SeverityWarning Severity = "warning"
)

// Diagnostic is one compiler/linter/build message extracted from raw text.
// Order of extraction follows the stream.
type Diagnostic struct {
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
}

// CountSeverity returns how many diagnostics carry the given severity.
// Counts are always derived by filtering, never tracked separately.
func CountSeverity(diags []Diagnostic, sev Severity) int {
	n := 0

	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}

	return n
}

// HeadDiagnostics returns at most n leading diagnostics.
func HeadDiagnostics(diags []Diagnostic, n int) []Diagnostic {
	if len(diags) <= n {
		return diags
	}

	return diags[:n]
}
