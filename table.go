// Copyright (c) 2014 Utkan Güngördü <utkan@freeconsole.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cfix

// Table is a bucketized cuckoo hash table mapping 32-bit keys to a
// fixed-width row of 32-bit data words (Config.Data words per key, the same
// for every key in a given table). A Table is not safe for concurrent use;
// callers needing concurrent access must serialize it themselves.
type Table struct {
	raw       []byte
	bins      uint32
	binBytes  int
	dataWords int
	prix      int

	keys    uint32
	version uint64
	min     uint32
	max     uint32

	depth                   uint32
	lower, upper            float64
	growth, attempt, random float64

	alloc BlockAllocator
	kind  *BlockKind

	specialPresent bool
	specialData    []uint32
}

// New creates a Table using the default Block Allocator.
func New(cfg Config) *Table {
	return NewWithAllocator(cfg, DefaultAllocator{})
}

// NewDefault creates a Table with DefaultConfig and the default allocator.
func NewDefault() *Table {
	return New(DefaultConfig())
}

// NewWithAllocator creates a Table using alloc for all bin storage. Passing
// a nil allocator is equivalent to DefaultAllocator{}.
func NewWithAllocator(cfg Config, alloc BlockAllocator) *Table {
	if err := cfg.validate(); err != nil {
		abort("invalid configuration: " + err.Error())
	}
	if alloc == nil {
		alloc = DefaultAllocator{}
	}

	t := &Table{
		dataWords: int(cfg.Data),
		depth:     cfg.Depth,
		lower:     cfg.Lower,
		upper:     cfg.Upper,
		growth:    cfg.Growth,
		attempt:   cfg.Attempt,
		random:    cfg.Random,
		alloc:     alloc,
		min:       Inf,
		max:       0,
	}
	t.binBytes = BinSize*4 + BinSize*t.dataWords*4
	t.kind = NewBlockKind("cfix.bin", t.binBytes)
	t.prix = prixFor(cfg.Start)
	t.bins = binsFor(t.prix)
	t.raw = t.alloc.Acquire(t.kind, int(t.bins), true)
	if t.raw == nil {
		abort("block allocator returned no storage for initial table")
	}
	t.initKeys()
	return t
}

func (t *Table) ttl() uint32 {
	if t.depth < t.bins {
		return t.depth
	}
	return t.bins
}

// locateGlobal finds key in either of its two candidate bins.
func (t *Table) locateGlobal(key uint32) (base, offset uint32, ok bool) {
	base = primary(key, t.bins)
	if offset, ok = t.locate(base, key); ok {
		return base, offset, true
	}
	base = secondary(key, t.bins)
	if offset, ok = t.locate(base, key); ok {
		return base, offset, true
	}
	return 0, 0, false
}

func (t *Table) bumpMinMax(key uint32) {
	if key < t.min {
		t.min = key
	}
	if key > t.max {
		t.max = key
	}
}

// Insert adds key with the given data words, growing the table if
// necessary. It reports false if key is already present (Duplicate).
// len(data) must equal t.DataWords(); a shorter slice silently leaves the
// remaining data words unset, a longer one is truncated, matching copy's
// semantics.
func (t *Table) Insert(key uint32, data []uint32) bool {
	if key == Inf {
		if t.specialPresent {
			return false
		}
		t.specialPresent = true
		t.specialData = cloneData(data, t.dataWords)
		t.keys++
		t.version++
		return true
	}

	if _, _, ok := t.locateGlobal(key); ok {
		return false
	}

	predicted := float64(t.keys+1) / float64(t.bins*BinSize)
	if predicted <= t.upper && t.displace(key, data, t.ttl()) {
		t.bumpMinMax(key)
		t.keys++
		t.version++
		return true
	}

	t.growAndInsert(key, data)
	return true
}

// Delete removes key. It reports false if key was not present
// (NotPresent).
func (t *Table) Delete(key uint32) bool {
	if key == Inf {
		if !t.specialPresent {
			return false
		}
		t.specialPresent = false
		t.specialData = nil
		t.keys--
		t.version++
		return true
	}

	base, offset, ok := t.locateGlobal(key)
	if !ok {
		return false
	}

	t.setKeyAt(base, offset, Inf)
	t.clearData(base, offset)
	t.rollRight(base, offset)
	t.keys--
	t.version++
	if t.keys == 0 {
		t.min = Inf
		t.max = 0
	}

	if t.shrinkable() {
		t.shrink()
	}
	return true
}

// Lookup returns key's data words and true, or (nil, false) if key is not
// present (NotPresent). The returned slice is a copy.
func (t *Table) Lookup(key uint32) ([]uint32, bool) {
	if key == Inf {
		if !t.specialPresent {
			return nil, false
		}
		return cloneData(t.specialData, t.dataWords), true
	}

	base, offset, ok := t.locateGlobal(key)
	if !ok {
		return nil, false
	}
	return t.copyEntryData(base, offset), true
}

// Update replaces key's data words in place, without touching the table's
// shape. It reports false if key is not present (NotPresent).
func (t *Table) Update(key uint32, data []uint32) bool {
	if key == Inf {
		if !t.specialPresent {
			return false
		}
		t.specialData = cloneData(data, t.dataWords)
		t.version++
		return true
	}

	base, offset, ok := t.locateGlobal(key)
	if !ok {
		return false
	}
	if t.dataWords > 0 {
		copy(t.dataAt(base, offset), data)
	}
	t.version++
	return true
}

// Apply calls fn once for every (key, data) pair currently in the table, in
// bin order followed by the special key slot if present. fn receives a copy
// of each entry's data, so mutating it has no effect on the table; the only
// way to change the table from within fn is through the public API, which
// Apply detects and treats as fatal — the original's cfix_apply makes the
// same version-guard check against mid-iteration mutation through its aux
// callback argument.
func (t *Table) Apply(fn func(key uint32, data []uint32)) {
	version := t.version
	for base := uint32(0); base < t.bins; base++ {
		for offset := uint32(0); offset < BinSize; offset++ {
			key := t.keyAt(base, offset)
			if key == Inf {
				break
			}
			fn(key, t.copyEntryData(base, offset))
			if t.version != version {
				abort("apply callback mutated the table during iteration")
			}
		}
	}
	if t.specialPresent {
		fn(Inf, cloneData(t.specialData, t.dataWords))
		if t.version != version {
			abort("apply callback mutated the table during iteration")
		}
	}
}

// Clone returns an independent deep copy of t, including its own storage
// acquired from the same allocator.
func (t *Table) Clone() *Table {
	nt := &Table{
		bins: t.bins, binBytes: t.binBytes, dataWords: t.dataWords,
		prix: t.prix, keys: t.keys, version: t.version,
		min: t.min, max: t.max, depth: t.depth,
		lower: t.lower, upper: t.upper,
		growth: t.growth, attempt: t.attempt, random: t.random,
		alloc: t.alloc,
		kind:  NewBlockKind("cfix.bin", t.binBytes),
	}
	nt.raw = nt.alloc.Acquire(nt.kind, int(nt.bins), false)
	copy(nt.raw, t.raw)
	if t.specialPresent {
		nt.specialPresent = true
		nt.specialData = cloneData(t.specialData, t.dataWords)
	}
	return nt
}

// Close releases the table's storage back to its allocator. The table must
// not be used afterward.
func (t *Table) Close() {
	if t.raw != nil {
		t.alloc.Release(t.kind, t.raw, int(t.bins))
		t.raw = nil
	}
}

// Keys returns the number of keys currently stored, including the special
// key Inf if present.
func (t *Table) Keys() uint32 { return t.keys }

// Bins returns the current number of bins.
func (t *Table) Bins() uint32 { return t.bins }

// DataWords returns the fixed number of 32-bit data words stored per key.
func (t *Table) DataWords() int { return t.dataWords }

// Version returns the table's change counter, bumped on every Insert,
// Delete, Update, resize, and Rebuild. Iterator uses it to detect
// invalidation.
func (t *Table) Version() uint64 { return t.version }

// Min returns the smallest key currently stored, or Inf if the table holds
// no key below Inf. Min and Max only narrow when the storage is rebuilt
// (Rebuild, or an automatic grow or shrink), per spec.md §9 — Delete itself
// does not recompute them except when the table becomes entirely empty.
func (t *Table) Min() uint32 { return t.min }

// Max returns the largest key currently stored below Inf, or 0 if none.
func (t *Table) Max() uint32 { return t.max }

// LoadFactor returns the fraction of bin capacity currently occupied by
// keys below Inf.
func (t *Table) LoadFactor() float64 {
	keys := t.keys
	if t.specialPresent {
		keys--
	}
	return float64(keys) / float64(t.bins*BinSize)
}

// Stats reports the bin occupancy histogram and primary-bin residency
// count (cfix_stats).
type Stats struct {
	// Hist[n] counts bins holding exactly n entries, for n in [0, BinSize].
	Hist [BinSize + 1]uint32
	// Primary counts entries currently resident in their primary bin.
	Primary uint32
}

func (t *Table) Stats() Stats {
	var s Stats
	for base := uint32(0); base < t.bins; base++ {
		count := uint32(0)
		for offset := uint32(0); offset < BinSize; offset++ {
			key := t.keyAt(base, offset)
			if key == Inf {
				break
			}
			count++
			if primary(key, t.bins) == base {
				s.Primary++
			}
		}
		s.Hist[count]++
	}
	return s
}
