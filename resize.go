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

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// Resizer: grow-on-insert-failure, shrink-on-delete-below-lower, and the
// explicit Rebuild entry point, all three funneling through attemptRebuild
// (cfix_insert's grow loop, cfix_delete's shrink loop, and cfix_rebuild).

// pendingEntry is the grow-triggering key that attemptRebuild must place
// before replaying the table's existing entries.
type pendingEntry struct {
	key  uint32
	data []uint32
}

// attemptRebuild allocates a new bin array sized by prix, inserts extra
// (if non-nil) followed by every entry currently in t, and — only if every
// insertion (extra and the replay) succeeds — swaps the new storage into t
// and releases the old storage. On failure the scratch allocation is
// released and t is left untouched, so the caller can retry with a larger
// prix.
func (t *Table) attemptRebuild(prix int, extra *pendingEntry) bool {
	newBins := binsFor(prix)
	newBinBytes := BinSize*4 + BinSize*t.dataWords*4
	newKind := NewBlockKind("cfix.bin", newBinBytes)
	newRaw := t.alloc.Acquire(newKind, int(newBins), true)
	if newRaw == nil && newBins > 0 {
		abort("block allocator returned no storage while resizing")
	}

	nt := &Table{
		bins: newBins, binBytes: newBinBytes, dataWords: t.dataWords,
		prix: prix, depth: t.depth,
		lower: t.lower, upper: t.upper,
		growth: t.growth, attempt: t.attempt, random: t.random,
		alloc: t.alloc, kind: newKind, raw: newRaw,
		min: Inf, max: 0,
		specialPresent: t.specialPresent, specialData: t.specialData,
	}
	nt.initKeys()

	ok := true
	if extra != nil {
		if nt.displace(extra.key, extra.data, nt.ttl()) {
			nt.bumpMinMax(extra.key)
			nt.keys++
		} else {
			ok = false
		}
	}

	for base := uint32(0); ok && base < t.bins; base++ {
		for offset := uint32(0); offset < BinSize; offset++ {
			k := t.keyAt(base, offset)
			if k == Inf {
				break
			}
			d := t.copyEntryData(base, offset)
			if !nt.displace(k, d, nt.ttl()) {
				ok = false
				break
			}
			nt.bumpMinMax(k)
			nt.keys++
		}
	}

	if !ok {
		t.alloc.Release(newKind, newRaw, int(newBins))
		return false
	}

	if nt.specialPresent {
		nt.keys++
	}

	t.alloc.Release(t.kind, t.raw, int(t.bins))

	t.raw = nt.raw
	t.bins = nt.bins
	t.binBytes = nt.binBytes
	t.prix = prix
	t.kind = nt.kind
	t.keys = nt.keys
	t.min = nt.min
	t.max = nt.max
	t.version++
	return true
}

// maxResizeAttempts bounds the grow and Rebuild retry loops once prix has
// saturated the prime table, so a pathological configuration aborts
// instead of spinning forever.
const maxResizeAttempts = 64

// growAndInsert is reached when Insert's direct displace attempt failed or
// was skipped because it would have pushed the table over Config.Upper. It
// grows the table by growth+attempt*attemptNo+random*U(0,1) each round,
// carrying key/data along as the first entry replayed into the larger
// table, until an attempt succeeds (cfix_insert's grow loop).
func (t *Table) growAndInsert(key uint32, data []uint32) {
	extra := &pendingEntry{key: key, data: data}
	startPrix := t.prix
	for attemptNo := 1; ; attemptNo++ {
		if attemptNo > maxResizeAttempts {
			abort("resize: exhausted retry budget while growing")
		}
		factor := t.growth + t.attempt*float64(attemptNo) + t.random*randFloat()
		prix := int(float64(startPrix) * factor)
		if prix < startPrix+attemptNo {
			prix = startPrix + attemptNo
		}
		if t.attemptRebuild(prix, extra) {
			logger.Debug("cfix: grow", zap.Int("attempt", attemptNo), zap.Uint32("bins", t.bins))
			return
		}
	}
}

// shrinkable reports whether the table's current load factor has fallen
// below Config.Lower and shrinking is worth attempting at all (a table at
// or below one bin's worth of keys never shrinks).
func (t *Table) shrinkable() bool {
	if t.keys <= BinSize {
		return false
	}
	return t.LoadFactor() < t.lower
}

// shrink finds the smallest prime index whose capacity is still at least the
// midpoint of [Lower, Upper] times the current capacity, then replays every entry
// into a table of that size, growing the target by one prime step per
// failed attempt (cfix_delete's shrink loop).
func (t *Table) shrink() {
	midpoint := (t.lower + t.upper) / 2 * float64(t.bins) * float64(BinSize)

	shrinkPrix := t.prix - 1
	for p := 0; p < t.prix; p++ {
		if float64(binsFor(p))*float64(BinSize) >= midpoint {
			shrinkPrix = p
			break
		}
	}

	for attemptNo := 1; ; attemptNo++ {
		prix := shrinkPrix + attemptNo - 1
		if prix < 0 || prix >= t.prix {
			// No smaller size both fits the keys and beats a retry limit;
			// leave the table at its current size.
			return
		}
		if t.attemptRebuild(prix, nil) {
			logger.Debug("cfix: shrink", zap.Int("attempt", attemptNo), zap.Uint32("bins", t.bins))
			return
		}
	}
}

// Rebuild replaces the table's storage with one sized so that, after the
// rebuild, the table's load factor is close to ratio (cfix_rebuild).
// ratio must be in (0, 1].
func (t *Table) Rebuild(ratio float64) {
	if ratio <= 0 || ratio > 1.0 {
		abort(fmt.Sprintf("rebuild: ratio %v out of range (0, 1]", ratio))
	}
	target := uint32(math.Ceil(float64(t.keys) / ratio))
	prix := prixFor(target)
	for attemptNo := 0; ; attemptNo++ {
		if attemptNo > maxResizeAttempts {
			abort("rebuild: exhausted retry budget")
		}
		if t.attemptRebuild(prix+attemptNo, nil) {
			logger.Debug("cfix: rebuild", zap.Float64("ratio", ratio), zap.Uint32("bins", t.bins))
			return
		}
	}
}

func randFloat() float64 {
	return rand.Float64()
}
