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

// IterStatus is the tri-state result of positioning an Iterator.
type IterStatus int

const (
	// IterOK means Current holds a valid (key, data) pair.
	IterOK IterStatus = iota
	// IterEnd means the iterator has visited every entry.
	IterEnd
	// IterInvalidated means the table changed (Version) since this iterator
	// was last positioned; Current and Forward refuse to report data from a
	// table shape they no longer reflect.
	IterInvalidated
)

// Iterator walks every (key, data) pair in a Table — the bins in order,
// followed by the special key Inf if present — and is invalidated by any
// structural change to the table made through Insert, Delete, Update,
// Rebuild, or an internal resize (cfix_iter_t).
type Iterator struct {
	t       *Table
	version uint64
	base    uint32
	offset  uint32
}

// Iterator creates a new Iterator positioned at t's first entry.
func (t *Table) Iterator() *Iterator {
	it := &Iterator{t: t}
	it.Reset()
	return it
}

// Reset repositions the iterator at t's current first entry and re-arms it
// against the table's current version.
func (it *Iterator) Reset() {
	t := it.t
	it.version = t.version

	if t.keys == 0 {
		it.base, it.offset = t.bins, 0
		return
	}

	it.base, it.offset = 0, 0
	if t.keyAt(0, 0) != Inf {
		return
	}
	it.Forward()
}

// Current returns the entry at the iterator's position. data is a copy
// safe to retain past further iteration or mutation of the table.
func (it *Iterator) Current() (key uint32, data []uint32, status IterStatus) {
	t := it.t
	if it.version != t.version {
		return 0, nil, IterInvalidated
	}
	if it.base == t.bins {
		if it.offset == 0 && t.specialPresent {
			return Inf, cloneData(t.specialData, t.dataWords), IterOK
		}
		return 0, nil, IterEnd
	}
	return t.keyAt(it.base, it.offset), t.copyEntryData(it.base, it.offset), IterOK
}

// Forward advances the iterator to the next entry and returns its status.
func (it *Iterator) Forward() IterStatus {
	t := it.t
	if it.version != t.version {
		return IterInvalidated
	}

	it.offset++
	if it.offset == BinSize {
		it.offset = 0
		it.base++
	}

	for ; it.base < t.bins; it.base, it.offset = it.base+1, 0 {
		if t.keyAt(it.base, it.offset) == Inf {
			continue
		}
		return IterOK
	}

	if it.offset == 0 && t.specialPresent {
		return IterOK
	}
	return IterEnd
}
