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

// primeTable is a precomputed, monotone-increasing sequence of bin counts
// (spec.md §4.2's Prime Table). Each successive prime is roughly 1.33x the
// previous one, which keeps the table's own growth curve smooth regardless
// of the Resizer's Growth/Attempt/Random tuning. This regenerates the
// original's hash_primes.h data table (not retrieved, filtered out of the
// original source pack as data-only) rather than guessing its exact values;
// any monotone prime sequence satisfies the contract in spec.md §4.2.
var primeTable = []uint32{
	11, 17, 29, 41, 59, 83, 113, 157, 211, 283,
	379, 509, 683, 911, 1213, 1619, 2161, 2879, 3833, 5099,
	6791, 9041, 12037, 16033, 21341, 28387, 37781, 50261, 66851, 88919,
	118273, 157307, 209221, 278269, 370103, 492251, 654697, 870773, 1158133, 1540321,
	2048639, 2724697, 3623861, 4819739, 6410267, 8525669, 11339171, 15081103, 20057887, 26677031,
	35480483, 47189057, 62761463, 83472749, 111018763, 147654973, 196381147, 261186931, 347378621, 462013571,
	614478083, 817255871, 1086950311, 1445643931, 1922706431,
}

// binsFor returns the bin count for prime index i, clamping to the largest
// available index (the table never shrinks below its first entry and never
// grows past the last one; primeTable is sized to exhaust the 32-bit key
// space's practical table sizes long before that is a real limitation).
func binsFor(i int) uint32 {
	if i < 0 {
		i = 0
	}
	if i >= len(primeTable) {
		i = len(primeTable) - 1
	}
	return primeTable[i]
}

// prixFor returns the smallest prime index i such that binsFor(i)*BinSize >=
// nKeys (cfix_keys_to_prix in the original source).
func prixFor(nKeys uint32) int {
	for i, p := range primeTable {
		if p*BinSize >= nKeys {
			return i
		}
	}
	return len(primeTable) - 1
}
