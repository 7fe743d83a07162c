// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package vector builds the interrupt dispatch table consumed by the PLIC in
// vectored mode: entry 0 is the combined exception/core-interrupt handler,
// entries 1..N are external interrupt handlers in priority index order.
package vector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

// EntrySize is the width of a dispatch entry. The hardware jumps to
// base + index*EntrySize, so the table is position dependent.
const EntrySize = 4

// ErrNullCoreLocal rejects a zero address for entry 0: address 0 is a valid
// ILM code address and downstream consumers treat zero as an unset entry.
var ErrNullCoreLocal = errors.New("vector table entry 0 must not be the zero address")

// Config describes the table to build.
type Config struct {
	// Base is the table address, aligned to the dispatch granularity
	Base uint32
	// CoreLocal is the entry 0 target; zero falls back to Default
	CoreLocal uint32
	// Default is the unhandled-interrupt stub address; zero falls back
	// to the entry 0 target
	Default uint32
	// Sources is the number of external interrupt sources
	Sources int
	// Handlers overrides entries by source index (1..Sources); a zero
	// address leaves the default in place
	Handlers map[int]uint32
}

// Resolve fills Handlers from named symbols in priority index order, leaving
// absent names on the unhandled-interrupt stub.
func (c *Config) Resolve(sources []string, lookup func(string) (uint32, bool)) {
	if c.Handlers == nil {
		c.Handlers = make(map[int]uint32)
	}

	for i, name := range sources {
		if addr, ok := lookup(name); ok && addr != 0 {
			c.Handlers[i+1] = addr
		}
	}
}

// Table is an immutable dispatch table.
type Table struct {
	Base    uint32
	Entries []uint32
}

// Build lays out the dispatch table. The base address must satisfy the
// hardware dispatch granularity and entry 0 must resolve to a non-zero
// address even when no override is supplied.
func Build(cfg Config) (t *Table, err error) {
	if cfg.Base%layout.VectorAlign != 0 {
		return nil, fmt.Errorf("vector table base %#x is not aligned to %d bytes", cfg.Base, layout.VectorAlign)
	}

	if cfg.Sources < 0 {
		return nil, fmt.Errorf("invalid source count %d", cfg.Sources)
	}

	core := cfg.CoreLocal

	if core == 0 {
		core = cfg.Default
	}

	if core == 0 {
		return nil, ErrNullCoreLocal
	}

	t = &Table{
		Base:    cfg.Base,
		Entries: make([]uint32, 1+cfg.Sources),
	}

	def := cfg.Default

	if def == 0 {
		def = core
	}

	t.Entries[0] = core

	for i := 1; i <= cfg.Sources; i++ {
		t.Entries[i] = def

		if addr, ok := cfg.Handlers[i]; ok && addr != 0 {
			t.Entries[i] = addr
		}
	}

	return
}

// Entry returns the dispatch address of an entry, zero when out of range.
func (t *Table) Entry(i int) uint32 {
	if i < 0 || i >= len(t.Entries) {
		return 0
	}

	return t.Entries[i]
}

// Size returns the encoded table size in bytes.
func (t *Table) Size() uint32 {
	return uint32(len(t.Entries) * EntrySize)
}

// Encode emits the table as little-endian words.
func (t *Table) Encode() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, t.Entries)

	return buf.Bytes()
}
