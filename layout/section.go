// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package layout assigns logical program sections to the physical memory
// regions of a catalogue and validates the resulting image layout before
// anything is flashed, re-expressing the reference linker script rules as
// executable logic.
package layout

import (
	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

// Kind classifies a section and determines its default region binding,
// alignment and boot-time treatment.
type Kind int

const (
	Code Kind = iota
	Rodata
	InitData
	ZeroData
	FastCode
	FastData
	FastZero
	NonCacheableData
	NonCacheableZero
	Heap
	Stack
	VectorTable
)

// String returns the conventional section name of the kind.
func (k Kind) String() string {
	switch k {
	case Code:
		return ".text"
	case Rodata:
		return ".rodata"
	case InitData:
		return ".data"
	case ZeroData:
		return ".bss"
	case FastCode:
		return ".fast"
	case FastData:
		return ".fast.data"
	case FastZero:
		return ".fast.bss"
	case NonCacheableData:
		return ".noncacheable.data"
	case NonCacheableZero:
		return ".noncacheable.bss"
	case Heap:
		return ".heap"
	case Stack:
		return ".stack"
	case VectorTable:
		return ".vectors"
	}

	return "unknown"
}

// Region returns the logical region the kind targets at runtime.
func (k Kind) Region() string {
	switch k {
	case Code:
		return mem.RegionText
	case Rodata:
		return mem.RegionRodata
	case InitData, ZeroData:
		return mem.RegionData
	case FastCode, VectorTable:
		return mem.RegionFastText
	case FastData, FastZero:
		return mem.RegionFastData
	case NonCacheableData, NonCacheableZero:
		return mem.RegionNonCacheableRAM
	case Heap:
		return mem.RegionHeap
	case Stack:
		return mem.RegionStack
	}

	return ""
}

// CopyOnBoot returns whether sections of this kind are stored in flash and
// copied to their runtime address by the boot loader.
func (k Kind) CopyOnBoot() bool {
	switch k {
	case InitData, FastCode, FastData, NonCacheableData, VectorTable:
		return true
	}

	return false
}

// ZeroFill returns whether sections of this kind are zeroed at boot.
func (k Kind) ZeroFill() bool {
	switch k {
	case ZeroData, FastZero, NonCacheableZero:
		return true
	}

	return false
}

// Align returns the minimum start alignment of the kind: word alignment for
// code and data, doubleword for non-cacheable and stack sections, the PLIC
// vectored dispatch granularity for the vector table.
func (k Kind) Align() uint32 {
	switch k {
	case NonCacheableData, NonCacheableZero, Stack:
		return 8
	case VectorTable:
		return VectorAlign
	}

	return 4
}

// VectorAlign is the hardware dispatch granularity of the vector table base
// address, the PLIC computes entry addresses relative to it.
const VectorAlign = 512

// Section describes a logical program section prior to placement.
type Section struct {
	// Name is the output section name (defaults to the kind name)
	Name string
	// Kind determines region binding, alignment and boot treatment
	Kind Kind
	// Align overrides the kind's minimum start alignment
	Align uint32
	// Size is the section size when no payload is attached; heap and
	// stack sizes always come from the placement configuration
	Size uint32
	// Payload holds the section contents, when known at build time
	Payload []byte
	// TargetRegion overrides the kind's logical runtime region
	TargetRegion string
	// LoadRegion overrides the flash region holding copy-on-boot bytes
	LoadRegion string
}

// String returns the effective section name, the kind name unless
// overridden.
func (s Section) String() string {
	return s.name()
}

func (s Section) name() string {
	if s.Name != "" {
		return s.Name
	}

	return s.Kind.String()
}

func (s Section) size() uint32 {
	if s.Payload != nil {
		return uint32(len(s.Payload))
	}

	return s.Size
}

func (s Section) align() uint32 {
	if s.Align > s.Kind.Align() {
		return s.Align
	}

	return s.Kind.Align()
}

func (s Section) target() string {
	if s.TargetRegion != "" {
		return s.TargetRegion
	}

	return s.Kind.Region()
}

func (s Section) load() string {
	if s.LoadRegion != "" {
		return s.LoadRegion
	}

	return mem.RegionRodata
}

// DefaultSections returns the canonical section set in link order: vector
// table and fast code in ILM, code and read-only data in flash, data and bss
// groups, then heap and stack. Sizes and payloads are zero, the caller fills
// them from the application image.
func DefaultSections() []Section {
	return []Section{
		{Kind: VectorTable},
		{Kind: FastCode},
		{Kind: Code},
		{Kind: Rodata},
		{Kind: InitData},
		{Kind: ZeroData},
		{Kind: FastData},
		{Kind: FastZero},
		{Kind: NonCacheableData},
		{Kind: NonCacheableZero},
		{Kind: Heap},
		{Kind: Stack},
	}
}
