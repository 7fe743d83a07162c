// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package boot implements the boot-time half of the runtime: section
// loading, trap dispatch and the startup sequencer. All hardware effects go
// through the Core interface so the sequence is testable off target.
package boot

import (
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

// Memory is a byte addressable view of physical memory.
type Memory interface {
	Read(addr uint32, p []byte) error
	Write(addr uint32, p []byte) error
}

type bank struct {
	start uint32
	buf   []byte
}

// RAM is a region backed Memory used for simulation and tests, accesses
// outside the mapped regions fault.
type RAM struct {
	banks []bank
}

// NewRAM maps the given regions, each zero filled.
func NewRAM(regions ...mem.Region) *RAM {
	r := &RAM{}

	for _, region := range regions {
		if region.Empty() {
			continue
		}

		r.banks = append(r.banks, bank{
			start: region.Origin,
			buf:   make([]byte, region.Length),
		})
	}

	return r
}

func (r *RAM) bank(addr uint32, size int) ([]byte, error) {
	for _, b := range r.banks {
		if addr >= b.start && uint64(addr)+uint64(size) <= uint64(b.start)+uint64(len(b.buf)) {
			off := addr - b.start
			return b.buf[off : off+uint32(size)], nil
		}
	}

	return nil, fmt.Errorf("access fault at %#x (%d bytes)", addr, size)
}

// Read copies len(p) bytes starting at addr into p.
func (r *RAM) Read(addr uint32, p []byte) error {
	buf, err := r.bank(addr, len(p))

	if err != nil {
		return err
	}

	copy(p, buf)

	return nil
}

// Write copies p into memory starting at addr.
func (r *RAM) Write(addr uint32, p []byte) error {
	buf, err := r.bank(addr, len(p))

	if err != nil {
		return err
	}

	copy(buf, p)

	return nil
}
