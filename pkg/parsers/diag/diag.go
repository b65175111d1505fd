// Package diag parses compiler and linter diagnostic lines. Each output
// dialect is described by an ordered, immutable pattern table; patterns are
// tried per line in priority order and the first match wins. Lines matching
// no pattern are skipped silently, which is a correctness requirement: tool
// output formats vary across versions and interleave freely with noise.
package diag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Table is an ordered diagnostic pattern list. Patterns use the named
// capture groups file, line, col, sev, code, and msg; absent groups leave
// the corresponding field zero.
type Table []*regexp.Regexp

// GoTable matches Go toolchain diagnostics: "file:line:col: message" and
// the column-less "file:line: message" variant. Severity is error unless
// the message carries an explicit "warning:" prefix.
var GoTable = Table{
	regexp.MustCompile(`^(?P<file>[^\s:]+):(?P<line>\d+):(?P<col>\d+): (?P<msg>.+)$`),
	regexp.MustCompile(`^(?P<file>[^\s:]+):(?P<line>\d+): (?P<msg>.+)$`),
}

// MSBuildTable matches MSBuild/dotnet diagnostics:
// "file(line,col): severity CODE: message", the column-less
// "file(line): severity CODE: message" variant, and the file-less
// "severity CODE: message" form emitted for project-level failures.
var MSBuildTable = Table{
	regexp.MustCompile(`^\s*(?P<file>[^(\s][^(]*)\((?P<line>\d+),(?P<col>\d+)\): (?P<sev>error|warning) (?P<code>[A-Za-z]+\d+): (?P<msg>.+)$`),
	regexp.MustCompile(`^\s*(?P<file>[^(\s][^(]*)\((?P<line>\d+)\): (?P<sev>error|warning) (?P<code>[A-Za-z]+\d+): (?P<msg>.+)$`),
	regexp.MustCompile(`^\s*(?P<sev>error|warning) (?P<code>[A-Za-z]+\d+): (?P<msg>.+)$`),
}

// warningPrefix marks a warning in dialects without an explicit severity
// group.
const warningPrefix = "warning: "

// Parse extracts diagnostics from the invocation's stdout and stderr, in
// stream order, using the given pattern table. Success reflects the exit
// code and timeout flag only; error-looking text never flips it.
func Parse(res toolrec.Result, rules Table) *BuildReport {
	var diags []toolrec.Diagnostic

	for _, stream := range []string{res.Stdout, res.Stderr} {
		for _, line := range toolrec.Lines(stream) {
			d, ok := matchLine(line, rules)
			if !ok {
				continue
			}

			diags = append(diags, d)
		}
	}

	return newBuildReport(res, diags)
}

func matchLine(line string, rules Table) (toolrec.Diagnostic, bool) {
	for _, rule := range rules {
		match := rule.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		return buildDiagnostic(rule, match), true
	}

	return toolrec.Diagnostic{}, false
}

func buildDiagnostic(rule *regexp.Regexp, match []string) toolrec.Diagnostic {
	var d toolrec.Diagnostic

	for i, name := range rule.SubexpNames() {
		if i == 0 || name == "" || match[i] == "" {
			continue
		}

		switch name {
		case "file":
			d.File = match[i]
		case "line":
			d.Line, _ = strconv.Atoi(match[i])
		case "col":
			d.Column, _ = strconv.Atoi(match[i])
		case "sev":
			d.Severity = toolrec.Severity(match[i])
		case "code":
			d.Code = match[i]
		case "msg":
			d.Message = match[i]
		}
	}

	if d.Severity == "" {
		d.Severity = toolrec.SeverityError

		if strings.HasPrefix(d.Message, warningPrefix) {
			d.Severity = toolrec.SeverityWarning
			d.Message = strings.TrimPrefix(d.Message, warningPrefix)
		}
	}

	return d
}
