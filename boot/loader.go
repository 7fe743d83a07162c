// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/image"
	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

const zeroChunk = 512

// Loader copies the copy-on-boot sections of an image from their flash load
// addresses to their runtime addresses and zero fills the uninitialized
// sections. It runs once, after the stack is valid and before anything
// touches static storage.
type Loader struct {
	img *image.Image
}

// NewLoader returns a Loader over a built image.
func NewLoader(img *image.Image) *Loader {
	return &Loader{img: img}
}

// Load performs all section copy and zero fill operations, in increasing
// address order within each section. Sections never read each other during
// this phase, placement guarantees their spans are disjoint, so inter
// section ordering is free. Empty spans (absent optional regions) are
// skipped.
func (l *Loader) Load(m Memory) (err error) {
	for _, s := range l.img.Plan.Sections {
		if s.Span.Empty() {
			continue
		}

		switch {
		case s.Kind.CopyOnBoot():
			if err = l.copy(m, s); err != nil {
				return
			}
		case s.Kind.ZeroFill():
			if err = ZeroFill(m, s.Span); err != nil {
				return
			}
		}
	}

	return
}

func (l *Loader) copy(m Memory, s layout.Placed) error {
	if s.Load.Size() != s.Span.Size() {
		return fmt.Errorf("section %s load span (%d bytes) does not match runtime span (%d bytes)", s.Kind, s.Load.Size(), s.Span.Size())
	}

	buf, err := l.img.Bytes(s.Load)

	if err != nil {
		return err
	}

	return m.Write(s.Span.Start, buf)
}

// ZeroFill writes zeros across a span. Running it twice yields the same
// memory state as running it once.
func ZeroFill(m Memory, s layout.Span) (err error) {
	zero := make([]byte, zeroChunk)

	for addr := s.Start; addr < s.End; addr += zeroChunk {
		n := uint32(zeroChunk)

		if s.End-addr < n {
			n = s.End - addr
		}

		if err = m.Write(addr, zero[:n]); err != nil {
			return
		}
	}

	return
}
