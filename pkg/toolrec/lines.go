package toolrec

import "strings"

// Lines splits captured output into lines for the per-line parsers.
// Captures are complete in-memory strings, so splitting carries no token
// length limit: an arbitrarily long noise line costs only itself, never the
// lines after it. A trailing newline produces no empty final line, and a
// trailing carriage return is stripped from each line.
func Lines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
