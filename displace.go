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

// Displacer: the recursive cuckoo relocation the Table Core falls back on
// once a key's two candidate bins are both full (cfix_cuckoo). displace
// only ever relocates an entry that currently sits in its own primary bin —
// an entry resident in its secondary bin is never moved a second time,
// which is what keeps the recursion from cycling.

// displace tries to place (key, data) into the table, using up to ttl
// cuckoo kicks. It returns false if the table should be resized instead.
func (t *Table) displace(key uint32, data []uint32, ttl uint32) bool {
	if ttl == 0 {
		return false
	}

	bp := primary(key, t.bins)
	if t.keyAt(bp, BinSize-1) == Inf {
		t.pasteEntry(bp, BinSize-1, key, data)
		t.rollLeft(bp, BinSize-1)
		return true
	}

	bs := secondary(key, t.bins)
	if t.keyAt(bs, BinSize-1) == Inf {
		t.pasteEntry(bs, BinSize-1, key, data)
		t.rollLeft(bs, BinSize-1)
		return true
	}

	if t.kick(bp, key, data, ttl) {
		return true
	}
	return t.kick(bs, key, data, ttl)
}

// kick scans the full bin base for an entry resident in its own primary
// bin, tentatively evicts it in favor of (key, data), and recurses to find
// the evicted entry a new home. If the recursion fails, the eviction is
// undone before the next candidate is tried.
func (t *Table) kick(base, key uint32, data []uint32, ttl uint32) bool {
	for offset := uint32(0); offset < BinSize; offset++ {
		evictKey := t.keyAt(base, offset)
		if primary(evictKey, t.bins) != base {
			continue
		}
		evictData := t.copyEntryData(base, offset)

		t.pasteEntry(base, offset, key, data)
		pos := t.adjust(base, offset)

		if t.displace(evictKey, evictData, ttl-1) {
			return true
		}

		t.pasteEntry(base, pos, evictKey, evictData)
		t.adjust(base, pos)
	}
	return false
}
