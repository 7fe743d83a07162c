// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

// Check identifies a build-time invariant verified over a solved plan.
type Check int

const (
	// CheckRegionAlignment requires 4-byte aligned region origins
	CheckRegionAlignment Check = iota + 1
	// CheckTextBounds requires aligned code start, end strictly in region
	CheckTextBounds
	// CheckDataAlignment requires aligned data bounds, both sides
	CheckDataAlignment
	// CheckBSSAlignment requires aligned zero-fill bounds
	CheckBSSAlignment
	// CheckHeapAlignment requires an aligned heap start
	CheckHeapAlignment
	// CheckStackSize requires room for every hart stack, with margin
	CheckStackSize
	// CheckRelocations requires the absence of dynamic relocations
	CheckRelocations
)

func (c Check) String() string {
	switch c {
	case CheckRegionAlignment:
		return "region alignment"
	case CheckTextBounds:
		return "text bounds"
	case CheckDataAlignment:
		return "data alignment"
	case CheckBSSAlignment:
		return "bss alignment"
	case CheckHeapAlignment:
		return "heap alignment"
	case CheckStackSize:
		return "stack sizing"
	case CheckRelocations:
		return "relocations"
	}

	return "unknown"
}

// Violation reports a single violated invariant with the values involved, so
// the integrator can resize regions or reduce section sizes.
type Violation struct {
	Check Check
	// Name is the region or section involved
	Name string
	Need uint64
	Have uint64
}

func (v Violation) Error() string {
	switch v.Check {
	case CheckRegionAlignment:
		return fmt.Sprintf("%s origin %#x is not 4-byte aligned", v.Name, v.Have)
	case CheckTextBounds:
		return fmt.Sprintf("%s must end strictly before %#x, ends at %#x", v.Name, v.Need, v.Have)
	case CheckDataAlignment, CheckBSSAlignment:
		return fmt.Sprintf("%s boundary %#x is not 4-byte aligned", v.Name, v.Have)
	case CheckHeapAlignment:
		return fmt.Sprintf("%s heap start %#x is not 4-byte aligned", v.Name, v.Have)
	case CheckStackSize:
		return fmt.Sprintf("%s length %#x does not exceed hart stack requirement %#x", v.Name, v.Have, v.Need)
	case CheckRelocations:
		return fmt.Sprintf("image carries %d bytes of dynamic relocations, none are supported", v.Have)
	}

	return fmt.Sprintf("unknown violation (%d)", v.Check)
}

func aligned(addr uint32) bool {
	return addr%4 == 0
}

// Validate evaluates the build-time invariants over a solved plan and
// returns every violation found. A nil result means the image layout is
// sound, a non-nil one means no bootable image may be produced. Violations
// correspond to undefined runtime behavior, so they are checked before any
// byte is written to the target device.
func Validate(p *Plan) (violations []Violation) {
	report := func(v Violation) {
		violations = append(violations, v)
	}

	m := p.Markers()

	// 1. aligned region origins
	for _, name := range []string{mem.RegionText, mem.RegionRodata, mem.RegionData, mem.RegionHeap, mem.RegionStack} {
		r := p.Catalogue.Region(name)

		if !r.Empty() && !aligned(r.Origin) {
			report(Violation{Check: CheckRegionAlignment, Name: name, Have: uint64(r.Origin)})
		}
	}

	// 2. code start alignment and containment
	if !m.Text.Empty() {
		text := p.Catalogue.Region(mem.RegionText)

		if !aligned(m.Text.Start) {
			report(Violation{Check: CheckTextBounds, Name: ".text", Have: uint64(m.Text.Start)})
		}

		if m.Text.End >= text.End() {
			report(Violation{Check: CheckTextBounds, Name: ".text", Need: uint64(text.End()), Have: uint64(m.Text.End)})
		}
	}

	// 3. data alignment, virtual and load sides
	for _, addr := range []uint32{m.Data.Start, m.Data.End, m.DataLoad} {
		if !aligned(addr) {
			report(Violation{Check: CheckDataAlignment, Name: ".data", Have: uint64(addr)})
		}
	}

	// 4. bss alignment
	for _, addr := range []uint32{m.BSS.Start, m.BSS.End} {
		if !aligned(addr) {
			report(Violation{Check: CheckBSSAlignment, Name: ".bss", Have: uint64(addr)})
		}
	}

	// 5. heap start alignment
	if !aligned(m.Heap.Start) {
		report(Violation{Check: CheckHeapAlignment, Name: mem.RegionHeap, Have: uint64(m.Heap.Start)})
	}

	// 6. per-hart stack sizing, strict to leave guard margin
	stack := p.Catalogue.Region(mem.RegionStack)
	need := uint64(p.Config.Harts()) * uint64(p.Config.HartStackSize)

	if uint64(stack.Length) <= need {
		report(Violation{Check: CheckStackSize, Name: mem.RegionStack, Need: need, Have: uint64(stack.Length)})
	}

	// 7. no dynamic relocation artifacts
	if p.RelocTableSize != 0 {
		report(Violation{Check: CheckRelocations, Have: uint64(p.RelocTableSize)})
	}

	return
}
