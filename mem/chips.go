// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// HPM5301 memory map
const (
	HPM5301FlashStart = 0x80000000
	HPM5301FlashSize  = 0x00100000 // 1MB XPI0

	HPM5301ILMStart = 0x00000000
	HPM5301ILMSize  = 0x00020000 // 128KB

	HPM5301DLMStart = 0x00080000
	HPM5301DLMSize  = 0x00020000 // 128KB

	HPM5301AHBSRAMStart = 0xf0400000
	HPM5301AHBSRAMSize  = 0x00008000 // 32KB
)

// HPM6750 memory map
const (
	HPM6750FlashStart = 0x80000000
	HPM6750FlashSize  = 0x01000000 // 16MB XPI0

	HPM6750ILMStart = 0x00000000
	HPM6750ILMSize  = 0x00040000 // 256KB

	HPM6750DLMStart = 0x00080000
	HPM6750DLMSize  = 0x00040000 // 256KB

	HPM6750AXISRAMStart = 0x01080000
	HPM6750AXISRAMSize  = 0x00200000 // 2MB

	HPM6750NCRAMStart = 0x01200000
	HPM6750NCRAMSize  = 0x00080000 // 512KB carved from AXI SRAM

	HPM6750AHBSRAMStart = 0xf0300000
	HPM6750AHBSRAMSize  = 0x00008000 // 32KB
)

// The first flash page is reserved for the XPI boot header, which is emitted
// by external tooling and never part of section placement.
const bootHeaderSize = 0x1000

// HPM5301 returns the catalogue of an HPM5301 part: code and read-only data
// execute in place from XPI flash, fast code lives in ILM, everything else
// in DLM. The part has no dedicated non-cacheable RAM window.
func HPM5301() Catalogue {
	flash := Region{Name: "XPI0", Origin: HPM5301FlashStart + bootHeaderSize, Length: HPM5301FlashSize - bootHeaderSize}
	ilm := Region{Name: "ILM", Origin: HPM5301ILMStart, Length: HPM5301ILMSize}
	dlm := Region{Name: "DLM", Origin: HPM5301DLMStart, Length: HPM5301DLMSize}

	return Catalogue{
		RegionText:     flash,
		RegionRodata:   flash,
		RegionData:     dlm,
		RegionBSS:      dlm,
		RegionHeap:     dlm,
		RegionStack:    dlm,
		RegionFastText: ilm,
		RegionFastData: dlm,
		RegionAHBSRAM:  {Name: "AHB_SRAM", Origin: HPM5301AHBSRAMStart, Length: HPM5301AHBSRAMSize},
	}
}

// HPM6750 returns the catalogue of an HPM6750 part, which adds AXI SRAM for
// data sections and a non-cacheable window carved out of it.
func HPM6750() Catalogue {
	flash := Region{Name: "XPI0", Origin: HPM6750FlashStart + bootHeaderSize, Length: HPM6750FlashSize - bootHeaderSize}
	ilm := Region{Name: "ILM", Origin: HPM6750ILMStart, Length: HPM6750ILMSize}
	dlm := Region{Name: "DLM", Origin: HPM6750DLMStart, Length: HPM6750DLMSize}
	axi := Region{Name: "AXI_SRAM", Origin: HPM6750AXISRAMStart, Length: HPM6750AXISRAMSize - HPM6750NCRAMSize}

	return Catalogue{
		RegionText:            flash,
		RegionRodata:          flash,
		RegionData:            axi,
		RegionBSS:             axi,
		RegionHeap:            axi,
		RegionStack:           dlm,
		RegionFastText:        ilm,
		RegionFastData:        dlm,
		RegionNonCacheableRAM: {Name: "NCRAM", Origin: HPM6750NCRAMStart, Length: HPM6750NCRAMSize},
		RegionAHBSRAM:         {Name: "AHB_SRAM", Origin: HPM6750AHBSRAMStart, Length: HPM6750AHBSRAMSize},
	}
}
