// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package image

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

// relocation artifacts that must be absent from a bootable image
var relocSections = []string{".got", ".rela.dyn", ".rel.dyn", ".rela.plt"}

// Firmware holds the parts of an application ELF consumed by image
// construction: section payloads, symbol addresses, the entry point and the
// size of any dynamic relocation artifacts.
type Firmware struct {
	// Entry is the ELF entry point
	Entry uint32
	// RelocTableSize feeds the relocation validation check
	RelocTableSize uint32

	sections map[string][]byte
	sizes    map[string]uint32
	symbols  map[string]uint32
}

// ReadFirmware parses an application ELF built by the external toolchain.
// Symbol-less binaries are accepted, name based handler overrides then
// simply never match.
func ReadFirmware(buf []byte) (fw *Firmware, err error) {
	f, err := elf.NewFile(bytes.NewReader(buf))

	if err != nil {
		return nil, fmt.Errorf("could not parse ELF, %v", err)
	}
	defer f.Close()

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("unexpected machine type %v", f.Machine)
	}

	fw = &Firmware{
		Entry:    uint32(f.Entry),
		sections: make(map[string][]byte),
		sizes:    make(map[string]uint32),
		symbols:  make(map[string]uint32),
	}

	for _, section := range f.Sections {
		if section.Flags&elf.SHF_ALLOC == 0 {
			continue
		}

		for _, name := range relocSections {
			if section.Name == name {
				fw.RelocTableSize += uint32(section.Size)
			}
		}

		fw.sizes[section.Name] = uint32(section.Size)

		if section.Type == elf.SHT_NOBITS {
			continue
		}

		data, err := section.Data()

		if err != nil {
			return nil, fmt.Errorf("could not read section %s, %v", section.Name, err)
		}

		fw.sections[section.Name] = data
	}

	syms, err := f.Symbols()

	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, fmt.Errorf("could not read symbols, %v", err)
	}

	for _, sym := range syms {
		fw.symbols[sym.Name] = uint32(sym.Value)
	}

	return fw, nil
}

// Symbol returns the address of a named symbol.
func (fw *Firmware) Symbol(name string) (uint32, bool) {
	addr, ok := fw.symbols[name]

	return addr, ok
}

// Section returns the payload of a named section, nil when absent or
// uninitialized.
func (fw *Firmware) Section(name string) []byte {
	return fw.sections[name]
}

func (fw *Firmware) lookup(kind layout.Kind) (payload []byte, size uint32) {
	names := []string{kind.String()}

	// accept the reference toolchain spellings
	switch kind {
	case layout.VectorTable:
		names = append(names, ".vector_table", ".vectors")
	case layout.FastCode:
		names = append(names, ".fast.text")
	}

	for _, name := range names {
		if buf, ok := fw.sections[name]; ok {
			return buf, uint32(len(buf))
		}

		if n, ok := fw.sizes[name]; ok {
			return nil, n
		}
	}

	return nil, 0
}

// LayoutSections derives the canonical section set from the firmware, in
// link order. The vector table section takes vectorSize, its contents are
// rebuilt rather than carried over from the ELF.
func (fw *Firmware) LayoutSections(vectorSize uint32) (sections []layout.Section) {
	for _, s := range layout.DefaultSections() {
		switch s.Kind {
		case layout.VectorTable:
			s.Size = vectorSize
		case layout.Heap, layout.Stack:
			// sized by configuration at placement
		default:
			s.Payload, s.Size = fw.lookup(s.Kind)
		}

		sections = append(sections, s)
	}

	return
}

// LookupSym returns a named symbol from an ELF binary.
func LookupSym(buf []byte, name string) (*elf.Symbol, error) {
	exe, err := elf.NewFile(bytes.NewReader(buf))

	if err != nil {
		return nil, err
	}
	defer exe.Close()

	syms, err := exe.Symbols()

	if err != nil {
		return nil, err
	}

	for _, sym := range syms {
		if sym.Name == name {
			return &sym, nil
		}
	}

	return nil, errors.New("symbol not found")
}
