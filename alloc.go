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

import "unsafe"

// binAlignment is the byte alignment the Block Allocator contract promises
// whenever a requested size is itself a multiple of it: one cache line of
// keys (BinSize 32-bit keys).
const binAlignment = BinSize * 4

// BlockKind is an opaque size-class handle, created once per distinct
// element size via NewBlockKind. It plays the role of the "kind" argument
// in spec.md §6's Block Allocator contract (m2_t in the original source).
type BlockKind struct {
	name     string
	elemSize int
}

// NewBlockKind creates a size-class handle for elements of elemSize bytes.
func NewBlockKind(name string, elemSize int) *BlockKind {
	return &BlockKind{name: name, elemSize: elemSize}
}

// BlockAllocator is the external collaborator spec.md §6 calls the Block
// Allocator: acquire/release of cache-line-aligned storage for a given
// size-class. The core depends only on this interface; DefaultAllocator is
// one concrete, non-pooling implementation.
type BlockAllocator interface {
	// Acquire returns a block able to hold n elements of kind's size,
	// optionally zeroed. The block's backing storage is aligned to
	// binAlignment whenever n*kind.elemSize is itself a multiple of it.
	Acquire(kind *BlockKind, n int, zero bool) []byte
	// Release returns a block previously obtained from Acquire for the same
	// kind and the same n.
	Release(kind *BlockKind, block []byte, n int)
}

// DefaultAllocator is a straightforward BlockAllocator built on the Go
// allocator plus manual pointer alignment (no pooling, no cgo). It is the
// allocator New and NewWithAllocator(cfg, nil) use.
type DefaultAllocator struct{}

// Acquire implements BlockAllocator.
func (DefaultAllocator) Acquire(kind *BlockKind, n int, zero bool) []byte {
	size := n * kind.elemSize
	if size == 0 {
		return nil
	}

	raw := make([]byte, size+binAlignment-1)
	base := uintptr(unsafe.Pointer(&raw[0]))
	pad := (binAlignment - int(base%binAlignment)) % binAlignment
	block := raw[pad : pad+size : pad+size]

	if !zero {
		// make already zeroes; nothing further to do either way, but the
		// zero flag is honored explicitly for parity with the contract.
		_ = zero
	}
	return block
}

// Release implements BlockAllocator. The default allocator does not pool
// memory, so Release is a deliberate no-op: the backing array becomes
// collectible once the caller drops its last reference.
func (DefaultAllocator) Release(kind *BlockKind, block []byte, n int) {
	_ = kind
	_ = block
	_ = n
}
