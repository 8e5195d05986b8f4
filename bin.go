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

// Bin Operations: the bin-local primitives the Table Core and Displacer
// build on. Every bin's BinSize keys are kept sorted ascending with Inf
// padding the tail (invariant I-2 in the original design), which is what
// lets locate run in a fixed number of steps instead of a data-dependent
// loop.

// locate searches bin base for key using the fixed 4-step offset
// accumulation from cfix_bin_locate: each step either keeps or advances the
// running offset by a halving stride, so the number of key comparisons is
// constant regardless of where key sits (or doesn't) in the bin. Requires
// BinSize == 16.
func (t *Table) locate(base, key uint32) (uint32, bool) {
	var o uint32
	o += step(key >= t.keyAt(base, o+8)) << 3
	o += step(key >= t.keyAt(base, o+4)) << 2
	o += step(key >= t.keyAt(base, o+2)) << 1
	o += step(key >= t.keyAt(base, o+1)) << 0
	if t.keyAt(base, o) == key {
		return o, true
	}
	return 0, false
}

func step(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// rollLeft bubbles the entry currently at offset leftward past any
// neighbor with a greater-or-equal key, restoring the bin's sort order
// after a fresh entry was pasted at offset (cfix_roll_left).
func (t *Table) rollLeft(base, offset uint32) {
	key := t.keyAt(base, offset)
	data := t.copyEntryData(base, offset)
	for o := offset; o > 0; o-- {
		if t.keyAt(base, o-1) < key {
			break
		}
		t.moveEntry(base, o-1, base, o)
		t.pasteEntry(base, o-1, key, data)
	}
}

// rollRight bubbles the Inf entry left behind by a delete at offset
// rightward until it reaches the bin's tail, shifting every entry after it
// one slot left (cfix_roll_right).
func (t *Table) rollRight(base, offset uint32) {
	key := t.keyAt(base, offset)
	data := t.copyEntryData(base, offset)
	for o := offset; o < BinSize-1; o++ {
		if t.keyAt(base, o+1) > key {
			break
		}
		t.moveEntry(base, o+1, base, o)
		t.pasteEntry(base, o+1, key, data)
	}
}

// adjust restores sort order around offset after the entry there was
// overwritten in place by the Displacer, swapping it one slot at a time
// with whichever neighbor it now violates order with, and returns its
// final resting offset (cfix_adjust).
func (t *Table) adjust(base, offset uint32) uint32 {
	for {
		leftOK := offset == 0 || t.keyAt(base, offset-1) < t.keyAt(base, offset)
		rightOK := offset == BinSize-1 || t.keyAt(base, offset) < t.keyAt(base, offset+1)
		if leftOK && rightOK {
			return offset
		}

		var swapWith uint32
		if !leftOK {
			swapWith = offset - 1
		} else {
			swapWith = offset + 1
		}

		key := t.keyAt(base, offset)
		data := t.copyEntryData(base, offset)
		t.moveEntry(base, swapWith, base, offset)
		t.pasteEntry(base, swapWith, key, data)
		offset = swapWith
	}
}
