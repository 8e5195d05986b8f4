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

// Hash Pair: two independent, fixed 32->32 bit integer mixers adapted from
// Bob Jenkins' integer hash mixers (http://burtleburtle.net/bob/hash/integer.html).
// Both are deterministic and unseeded: the original source
// (cfix_full_avalanche / cfix_half_avalanche) always mixes with the same
// constants, so there is nothing to seed per table instance.

// h1 is the full-avalanche mix: six add/xor/shift stages, used to compute a
// key's primary bin.
func h1(key uint32) uint32 {
	a := key
	a = (a + 0x7ed55d16) + (a << 12)
	a = (a ^ 0xc761c23c) ^ (a >> 19)
	a = (a + 0x165667b1) + (a << 5)
	a = (a + 0xd3a2646c) ^ (a << 9)
	a = (a + 0xfd7046c5) + (a << 3)
	a = (a ^ 0xb55a4f09) ^ (a >> 16)
	return a
}

// h2 is the half-avalanche mix, beginning with a bitwise NOT, used to
// compute a key's secondary bin. It is a functionally independent mix from
// h1, which is the minimum cuckoo hashing needs to reach high load factors.
func h2(key uint32) uint32 {
	a := ^key
	a = (a + 0x479ab41d) + (a << 8)
	a = (a ^ 0xe4aa10ce) ^ (a >> 5)
	a = (a + 0x9942f0a6) - (a << 14)
	a = (a ^ 0x5aedd67d) ^ (a >> 3)
	a = (a + 0x17bea992) + (a << 7)
	return a
}

// primary returns key's primary bin index for a table with bins total bins.
func primary(key, bins uint32) uint32 {
	return h1(key) % bins
}

// secondary returns key's secondary bin index for a table with bins total
// bins.
func secondary(key, bins uint32) uint32 {
	return h2(key) % bins
}
