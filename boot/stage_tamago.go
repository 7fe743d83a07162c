// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && riscv64

package boot

import (
	"log"

	"github.com/usbarmory/armory-boot/exec"
	"github.com/usbarmory/tamago/dma"
)

// Stage loads a firmware ELF into a staging RAM region for execution under
// emulation (e.g. QEMU sifive_u development hosting), returning its entry
// point.
func Stage(region *dma.Region, firmware []byte) (entry uint32, err error) {
	image := &exec.ELFImage{
		Region: region,
		ELF:    firmware,
	}

	if err = image.Load(); err != nil {
		return
	}

	log.Printf("staged firmware size:%d entry:%#x", len(firmware), image.Entry())

	return uint32(image.Entry()), nil
}
