// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"fmt"

	"github.com/usbarmory/tamago/bits"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

// Andes PMA entry configuration fields
const (
	pmaETyp      = 0
	pmaETypNAPOT = 0x3

	pmaMTyp      = 2
	pmaMTypNCBuf = 0x3 // non-cacheable, bufferable

	pmaAMO = 5
)

// NonCacheablePMAEntry is the PMA entry reserved for the non-cacheable RAM
// window (entry 0 is kept for debug transport fixups).
const NonCacheablePMAEntry = 1

// PMAEntry is a programmed physical memory attribute entry: the NAPOT
// encoded address register value and its configuration field.
type PMAEntry struct {
	Index int
	Addr  uint32
	Cfg   uint32
}

// NonCacheableWindow encodes the PMA entry covering the non-cacheable
// window. An empty span yields ok false and no entry, which is not an
// error. NAPOT encoding requires the window length to be a power of two and
// its start naturally aligned to it.
func NonCacheableWindow(s layout.Span) (e PMAEntry, ok bool, err error) {
	if s.Empty() {
		return
	}

	size := s.Size()

	if size&(size-1) != 0 {
		return e, false, fmt.Errorf("non-cacheable window length %#x is not a power of two", size)
	}

	if s.Start&(size-1) != 0 {
		return e, false, fmt.Errorf("non-cacheable window start %#x is not aligned to its length %#x", s.Start, size)
	}

	e.Index = NonCacheablePMAEntry
	e.Addr = (s.Start + size>>1 - 1) >> 2

	bits.SetN(&e.Cfg, pmaETyp, 0b11, pmaETypNAPOT)
	bits.SetN(&e.Cfg, pmaMTyp, 0b111, pmaMTypNCBuf)
	bits.Set(&e.Cfg, pmaAMO)

	return e, true, nil
}
