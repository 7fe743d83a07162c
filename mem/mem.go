// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mem describes the physical memory regions of HPMicro RISC-V
// microcontrollers and the configuration values consumed by the boot layer.
//
// A Catalogue is supplied by the platform integrator, either as Go values
// (see the per-chip catalogues in this package) or parsed from a memory
// region description file (see Parse).
package mem

import (
	"fmt"
)

// Logical region names, as referenced by section placement.
const (
	RegionText            = "REGION_TEXT"
	RegionRodata          = "REGION_RODATA"
	RegionData            = "REGION_DATA"
	RegionBSS             = "REGION_BSS"
	RegionHeap            = "REGION_HEAP"
	RegionStack           = "REGION_STACK"
	RegionFastText        = "REGION_FASTTEXT"
	RegionFastData        = "REGION_FASTDATA"
	RegionNonCacheableRAM = "REGION_NONCACHEABLE_RAM"
	RegionAHBSRAM         = "AHB_SRAM"
)

// Required lists the regions every catalogue must define.
var Required = []string{
	RegionText,
	RegionRodata,
	RegionData,
	RegionBSS,
	RegionHeap,
	RegionStack,
	RegionFastText,
	RegionFastData,
}

// Optional lists the regions a catalogue may omit, in which case they are
// treated as empty.
var Optional = []string{
	RegionNonCacheableRAM,
	RegionAHBSRAM,
}

// Region represents a contiguous physical memory region. Regions are
// immutable for the life of a build.
type Region struct {
	// Name is the physical region name (e.g. "XPI0", "ILM", "DLM")
	Name string
	// Origin is the region start address
	Origin uint32
	// Length is the region size in bytes
	Length uint32
}

// End returns the first address past the region.
func (r Region) End() uint32 {
	return r.Origin + r.Length
}

// Empty returns whether the region has zero length.
func (r Region) Empty() bool {
	return r.Length == 0
}

// Contains returns whether [start, end) lies entirely within the region.
func (r Region) Contains(start uint32, end uint32) bool {
	return start >= r.Origin && end <= r.End() && start <= end
}

// Catalogue maps logical region names to physical regions. Multiple logical
// names may alias the same physical region (e.g. REGION_DATA, REGION_BSS,
// REGION_HEAP and REGION_STACK commonly all resolve to DLM).
type Catalogue map[string]Region

// Region returns the region for a logical name. Absent optional regions
// resolve to an empty region, which is not an error.
func (c Catalogue) Region(name string) Region {
	return c[name]
}

// Validate checks that all required regions are present and non-empty.
func (c Catalogue) Validate() error {
	for _, name := range Required {
		r, ok := c[name]

		if !ok {
			return fmt.Errorf("missing required region %s", name)
		}

		if r.Empty() {
			return fmt.Errorf("required region %s is empty", name)
		}
	}

	return nil
}
