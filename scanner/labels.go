package scanner

import (
	"github.com/bitcoindevkit/bdk-sp/keyderiv"
	"github.com/bitcoindevkit/bdk-sp/primitives"
)

// LabelEntry is the (m, tweak) half of a keyderiv.LabelTweak that the
// scanner needs; the label's own public point is only used as the lookup
// key into LabelTable and isn't retained past construction.
type LabelEntry struct {
	M     uint32
	Tweak *primitives.Scalar
}

// LabelTable maps a compressed candidate public key to the label it
// matches. Both L_m and -L_m must be present as keys: the scanner cannot
// know, from an x-only output alone, which parity the sender's labelled
// point had before flattening, so both signs are indexed up front to
// keep the scanner's inner loop branch-free.
//
// A LabelTable is immutable once built: it is owned by the scanner and
// rebuilt whenever a label is added, then treated as read-only. Add
// returns a new snapshot rather than mutating in place, so a scanner
// goroutine mid-loop over the old table is never disturbed.
type LabelTable struct {
	byKey map[[33]byte]LabelEntry
	byM   map[uint32]bool
}

// NewLabelTable returns an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{byKey: make(map[[33]byte]LabelEntry), byM: make(map[uint32]bool)}
}

// Add returns a new LabelTable snapshot with entry indexed under both
// point (L_m) and its negation (-L_m). It rejects a repeated m with
// *keyderiv.LabelError wrapping keyderiv.ErrDuplicate, leaving t
// untouched.
func (t *LabelTable) Add(entry LabelEntry, point *primitives.Point) (*LabelTable, error) {
	if t.byM[entry.M] {
		return nil, &keyderiv.LabelError{Err: keyderiv.ErrDuplicate, M: entry.M}
	}

	nextKey := make(map[[33]byte]LabelEntry, len(t.byKey)+2)
	for k, v := range t.byKey {
		nextKey[k] = v
	}
	nextKey[point.Compressed()] = entry
	nextKey[point.Negate().Compressed()] = entry

	nextM := make(map[uint32]bool, len(t.byM)+1)
	for m := range t.byM {
		nextM[m] = true
	}
	nextM[entry.M] = true

	return &LabelTable{byKey: nextKey, byM: nextM}, nil
}

// lookup returns the label entry for a compressed candidate key, if any.
func (t *LabelTable) lookup(compressed [33]byte) (LabelEntry, bool) {
	e, ok := t.byKey[compressed]
	return e, ok
}

// Len reports how many distinct keys (counting both L_m and -L_m) the
// table holds.
func (t *LabelTable) Len() int {
	return len(t.byKey)
}
