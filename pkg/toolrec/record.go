package toolrec

// Record is a canonical, fully-detailed parse result for one tool
// invocation. Implementations are closed per-tool-command structs; they are
// created by a parser, never mutated afterwards, and rendered or narrowed
// on demand.
type Record interface {
	// Kind is the stable per-tool-command identifier, used for schema
	// lookup and payload labeling.
	Kind() string

	// Render returns the deterministic human-readable text for the record.
	// It depends only on the record value.
	Render() string

	// Compact returns the reduced projection of the record. Every field of
	// the projection is present in, or derivable from, the full record.
	// Calling Compact on an already-compact record returns the receiver.
	Compact() Record
}

// Head caps applied by compact projections. Compact records keep at most
// this many leading items of the corresponding full collection.
const (
	CompactDiagnosticHead = 5
	CompactFileHead       = 10
	CompactCommitHead     = 10
	CompactTestHead       = 10
)

// HeadStrings returns at most n leading elements of items.
func HeadStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}

	return items[:n]
}
