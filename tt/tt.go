// Package tt implements the clustered transposition table that sits next to
// the position core: a fixed-size key→entry cache probed by search and warmed
// through the core's prefetch hint after every move.
package tt

import (
	"unsafe"

	"github.com/87flowers/Stockfish/position"
)

// Bound flags describing how trustworthy a stored score is.
const (
	UpperBound = iota // score was a fail-low: real value is at most Score
	LowerBound        // score was a fail-high: real value is at least Score
	ExactBound
)

const clusterSize = 4

// Entry is one stored position. The zero Key marks an empty slot.
type Entry struct {
	Key   uint64
	Move  position.Move
	Score int16
	Depth int8
	Flag  int8
	gen   uint8
}

// Table is a fixed-size transposition table. Entries are grouped into
// clusters addressed by key modulo cluster count; within a cluster,
// replacement prefers the shallowest, oldest entry.
type Table struct {
	entries      []Entry
	clusterCount uint64
	generation   uint8

	// sink keeps the compiler from discarding the Prefetch read.
	sink uint64
}

// New allocates a table of roughly sizeMB megabytes.
func New(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table to roughly sizeMB megabytes, dropping all
// stored entries.
func (t *Table) Resize(sizeMB int) {
	entrySize := uint64(unsafe.Sizeof(Entry{}))
	clusterBytes := entrySize * clusterSize
	clusterCount := uint64(sizeMB) * 1024 * 1024 / clusterBytes
	if clusterCount == 0 {
		clusterCount = 1
	}
	t.clusterCount = clusterCount
	t.entries = make([]Entry, clusterCount*clusterSize)
	t.generation = 0
}

// Clear drops all stored entries without reallocating.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.generation = 0
}

// NewSearch ages the table: entries stored before the bump lose replacement
// priority against fresh ones.
func (t *Table) NewSearch() { t.generation++ }

// Prefetch pulls the cluster for key toward the cache ahead of the Probe that
// search will issue for the same position. Satisfies position.Prefetcher.
func (t *Table) Prefetch(key uint64) {
	base := key % t.clusterCount * clusterSize
	t.sink = t.entries[base].Key
}

// Probe looks up key and reports whether a matching entry was found.
func (t *Table) Probe(key uint64) (*Entry, bool) {
	base := key % t.clusterCount * clusterSize
	for i := uint64(0); i < clusterSize; i++ {
		e := &t.entries[base+i]
		if e.Key == key {
			e.gen = t.generation
			return e, true
		}
	}
	return nil, false
}

// Store writes an entry for key, replacing within the key's cluster: a slot
// already holding the key, else an empty slot, else the slot with the worst
// depth-minus-age replacement score.
func (t *Table) Store(key uint64, depth int8, move position.Move, score int16, flag int8) {
	base := key % t.clusterCount * clusterSize

	target := -1
	for i := uint64(0); i < clusterSize; i++ {
		idx := int(base + i)
		if t.entries[idx].Key == key {
			// Keep the known best move when the new search did not
			// produce one.
			if move == position.MoveNone {
				move = t.entries[idx].Move
			}
			target = idx
			break
		}
		if t.entries[idx].Key == 0 && target == -1 {
			target = idx
		}
	}

	if target == -1 {
		target = int(base)
		best := t.replaceScore(target)
		for i := uint64(1); i < clusterSize; i++ {
			idx := int(base + i)
			if s := t.replaceScore(idx); s < best {
				best = s
				target = idx
			}
		}
	}

	t.entries[target] = Entry{
		Key: key, Move: move, Score: score,
		Depth: depth, Flag: flag, gen: t.generation,
	}
}

// replaceScore ranks an entry for replacement: deep and recent entries score
// high and survive.
func (t *Table) replaceScore(idx int) int {
	e := &t.entries[idx]
	return int(e.Depth) - 2*int(t.generation-e.gen)
}

// Hashfull estimates the fill rate in permille from the first thousand
// entries, the way UCI drivers report it.
func (t *Table) Hashfull() int {
	n := 1000
	if len(t.entries) < n {
		n = len(t.entries)
	}
	used := 0
	for i := 0; i < n; i++ {
		if t.entries[i].Key != 0 && t.entries[i].gen == t.generation {
			used++
		}
	}
	return used * 1000 / n
}

var _ position.Prefetcher = (*Table)(nil)
