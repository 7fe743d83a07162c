// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

// Span is a half-open address interval [Start, End).
type Span struct {
	Start uint32
	End   uint32
}

// Size returns the span length in bytes.
func (s Span) Size() uint32 {
	return s.End - s.Start
}

// Empty returns whether the span has zero length.
func (s Span) Empty() bool {
	return s.End == s.Start
}

// Contains returns whether addr falls within the span.
func (s Span) Contains(addr uint32) bool {
	return addr >= s.Start && addr < s.End
}

// Placed is a section with its resolved spans: Span is where the section
// lives at runtime, Load is where its bytes sit in flash for copy-on-boot
// kinds (zero otherwise).
type Placed struct {
	Section

	Span Span
	Load Span
}

// Plan is the solved placement model. It is fully determined at build time
// and read-only afterwards, the boot loader and the startup sequencer only
// consume it.
type Plan struct {
	Catalogue mem.Catalogue
	Config    mem.Config
	Sections  []Placed

	// RelocTableSize is the combined size of dynamic relocation artifacts
	// found in the input image. The platform has no relocating loader, so
	// validation requires it to be exactly zero.
	RelocTableSize uint32
}

// PlacementError reports a section that does not fit its region.
type PlacementError struct {
	Region  string
	Section string
	Need    uint32
	Have    uint32
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("section %s overflows region %s: %#x bytes required, %#x available", e.Section, e.Region, e.Need, e.Have)
}

// AlignTo rounds addr up to align, which must be zero or a power of two.
func AlignTo(addr uint32, align uint32) uint32 {
	if align == 0 {
		return addr
	}

	return (addr + align - 1) &^ (align - 1)
}

// Place assigns every section a contiguous, alignment-padded span inside its
// target region and, for copy-on-boot kinds, a load span inside the flash
// region, both in declaration order. Logical regions aliasing the same
// physical region share a single location counter. Sections targeting an
// absent optional region are placed with zero size and zero markers.
//
// Heap and stack sizes are taken from the configuration. A region that
// cannot accommodate its sections yields a PlacementError, detectable before
// any runtime code exists.
func Place(cat mem.Catalogue, cfg mem.Config, sections []Section) (p *Plan, err error) {
	cfg.SetDefaults()

	if err = cat.Validate(); err != nil {
		return
	}

	// location counters are per physical region, keyed by origin
	cursors := make(map[uint32]uint32)

	next := func(r mem.Region) uint32 {
		if c, ok := cursors[r.Origin]; ok {
			return c
		}

		return r.Origin
	}

	p = &Plan{
		Catalogue: cat,
		Config:    cfg,
	}

	for _, s := range sections {
		size := s.size()

		switch s.Kind {
		case Heap:
			size = cfg.HeapSize
		case Stack:
			size = cfg.StackSize
		}

		region := cat.Region(s.target())

		if region.Empty() {
			p.Sections = append(p.Sections, Placed{Section: s})
			continue
		}

		start := AlignTo(next(region), s.align())
		end := start + size

		if end < start || end > region.End() {
			return nil, &PlacementError{
				Region:  s.target(),
				Section: s.name(),
				Need:    end - next(region),
				Have:    region.End() - next(region),
			}
		}

		cursors[region.Origin] = end

		p.Sections = append(p.Sections, Placed{
			Section: s,
			Span:    Span{Start: start, End: end},
		})
	}

	// Load spans follow the flash resident sections, in the same relative
	// order as the runtime spans so symbol based assumptions hold on both
	// sides.
	for i := range p.Sections {
		placed := &p.Sections[i]

		if !placed.Kind.CopyOnBoot() || placed.Span.Empty() {
			continue
		}

		region := cat.Region(placed.load())

		start := AlignTo(next(region), 4)
		end := start + placed.Span.Size()

		if end < start || end > region.End() {
			return nil, &PlacementError{
				Region:  placed.load(),
				Section: placed.name(),
				Need:    end - next(region),
				Have:    region.End() - next(region),
			}
		}

		cursors[region.Origin] = end
		placed.Load = Span{Start: start, End: end}
	}

	return
}

// Section returns the placement of the named section, nil when absent.
func (p *Plan) Section(name string) *Placed {
	for i := range p.Sections {
		if p.Sections[i].name() == name {
			return &p.Sections[i]
		}
	}

	return nil
}

// StackTop returns the initial stack pointer of a hart, carved downwards
// from the stack section end in hart identifier order.
func (p *Plan) StackTop(hart int) uint32 {
	return p.Markers().Stack.End - uint32(hart)*p.Config.HartStackSize
}
