// Package eventstream folds newline-delimited JSON event streams into one
// terminal state per identity key. The fold is deliberately last-write-wins:
// among multiple events sharing a key, only the most recently observed event
// determines the final state, even when it overwrites an earlier terminal
// state (a rerun turning a fail into a pass, for example).
package eventstream

import "bytes"

// Stats counts the lines the reduction dropped or folded away. The drop
// paths are silent by design; the counters make them observable in tests.
type Stats struct {
	// Lines is the number of non-empty input lines examined.
	Lines int

	// Malformed is the number of lines that failed to decode as events.
	Malformed int

	// Unkeyed is the number of well-formed events without an identity key.
	Unkeyed int

	// Overwrites is the number of events that replaced a previously stored
	// event for the same key.
	Overwrites int
}

// Reduction is the result of folding one event stream.
type Reduction[E any] struct {
	// Final holds the last event observed for each key, ordered by first
	// sighting of the key.
	Final []E

	// Unkeyed holds well-formed events that carry no identity key, in
	// stream order. They are excluded from the keyed result set but remain
	// available for cross-cutting aggregation.
	Unkeyed []E

	// Stats describes the dropped and folded lines.
	Stats Stats
}

// Reduce folds data line by line. decode turns one line into an event and
// reports an error for malformed lines, which are dropped silently. key
// extracts the identity key; events without one (ok == false) go to the
// Unkeyed set. For keyed events the mapping is insertion-ordered and each
// new event for an existing key overwrites the stored one.
func Reduce[K comparable, E any](
	data []byte,
	decode func(line []byte) (E, error),
	key func(ev E) (K, bool),
) Reduction[E] {
	var red Reduction[E]

	index := make(map[K]int)

	// The stream is already in memory, so lines carry no length limit: an
	// oversized line can only fail to decode, never swallow its successors.
	for _, raw := range bytes.Split(data, []byte("\n")) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		red.Stats.Lines++

		ev, err := decode(line)
		if err != nil {
			red.Stats.Malformed++

			continue
		}

		k, ok := key(ev)
		if !ok {
			red.Stats.Unkeyed++
			red.Unkeyed = append(red.Unkeyed, ev)

			continue
		}

		if pos, seen := index[k]; seen {
			red.Final[pos] = ev
			red.Stats.Overwrites++

			continue
		}

		index[k] = len(red.Final)
		red.Final = append(red.Final, ev)
	}

	return red
}
