// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && riscv64

package mem

import (
	"github.com/usbarmory/tamago/dma"
)

// AHBSRAMRegion is the DMA region carved from the AHB SRAM window, reserved
// in full for peripheral descriptors and bounce buffers.
var AHBSRAMRegion *dma.Region

// Init carves the catalogue AHB SRAM window as a DMA region. It is a no-op
// when the catalogue does not define one.
func Init(cat Catalogue) (err error) {
	r := cat.Region(RegionAHBSRAM)

	if r.Empty() {
		return
	}

	if AHBSRAMRegion, err = dma.NewRegion(uint(r.Origin), int(r.Length), false); err != nil {
		return
	}

	AHBSRAMRegion.Reserve(int(r.Length), 0)

	return
}
