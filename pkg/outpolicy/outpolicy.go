// Package outpolicy decides, per invocation, whether a canonical record
// ships in full or as its compact projection. The decision is a pure size
// comparison against the raw tool output re-evaluated on every call; the
// policy holds no state between invocations.
package outpolicy

import (
	"encoding/json"
	"fmt"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

// percentBase is the denominator of the margin computation.
const percentBase = 100

// Policy configures the full-versus-compact decision.
type Policy struct {
	// AlwaysFull forces the full record unconditionally.
	AlwaysFull bool

	// MarginPercent widens the size allowance: the full record is kept as
	// long as its JSON form stays within raw*(100+margin)/100 bytes. Zero
	// means the full record must not exceed the raw output at all.
	MarginPercent int
}

// Payload is the dual output for one invocation: the chosen structured
// value and its deterministic text rendering, always together.
type Payload struct {
	// Record is the representation the policy chose.
	Record toolrec.Record

	// Structured is Record's JSON form.
	Structured json.RawMessage

	// Text is Record's rendering.
	Text string

	// Compacted reports whether the compact projection was substituted.
	Compacted bool
}

// Select applies the policy to one record and the raw capture it came from.
func (p Policy) Select(rec toolrec.Record, raw toolrec.Result) (Payload, error) {
	full, err := json.Marshal(rec)
	if err != nil {
		return Payload{}, fmt.Errorf("marshal %s record: %w", rec.Kind(), err)
	}

	if p.AlwaysFull || p.withinBudget(len(full), len(raw.Combined())) {
		return Payload{Record: rec, Structured: full, Text: rec.Render()}, nil
	}

	compact := rec.Compact()

	structured, err := json.Marshal(compact)
	if err != nil {
		return Payload{}, fmt.Errorf("marshal %s compact record: %w", compact.Kind(), err)
	}

	return Payload{
		Record:     compact,
		Structured: structured,
		Text:       compact.Render(),
		Compacted:  true,
	}, nil
}

// withinBudget reports whether a full record of fullSize bytes fits the
// informational footprint of rawSize bytes of tool output.
func (p Policy) withinBudget(fullSize, rawSize int) bool {
	margin := p.MarginPercent
	if margin < 0 {
		margin = 0
	}

	return fullSize*percentBase <= rawSize*(percentBase+margin)
}
