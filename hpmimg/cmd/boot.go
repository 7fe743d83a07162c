// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/term"

	"github.com/hpmicro-rs/hpm-riscv-rt/boot"
	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
	"github.com/hpmicro-rs/hpm-riscv-rt/util"
)

func init() {
	Add(Cmd{
		Name: "boot",
		Help: "simulate the startup sequence on all harts",
		Fn:   bootCmd,
	})
}

// physicalRegions deduplicates the catalogue by origin, as multiple
// logical region names may alias the same memory bank.
func physicalRegions() (regions []mem.Region) {
	seen := make(map[uint32]bool)

	var names []string

	for name := range Catalogue {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		r := Catalogue[name]

		if r.Empty() || seen[r.Origin] {
			continue
		}

		seen[r.Origin] = true
		regions = append(regions, r)
	}

	return
}

func bootCmd(t *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	ram := boot.NewRAM(physicalRegions()...)

	seq := boot.New(Image, ram, boot.Hooks{
		Entry: func(hart int) {
			banner := fmt.Sprintf("hart %d reached entry point %#08x\n", hart, Image.Entry)

			for _, c := range []byte(banner) {
				util.BufferedTermLog(c, hart == 0, t)
			}
		},
	})

	harts := Image.Plan.Config.Harts()

	for hart := 0; hart < harts; hart++ {
		core := &boot.SimCore{Hart: hart}

		if err = seq.Boot(core); !errors.Is(err, boot.ErrEntryReturned) {
			return "", fmt.Errorf("hart %d boot failed, %v", hart, err)
		}

		fmt.Fprintf(&buf, "\nhart %d trace:\n", hart)

		for _, op := range core.Trace() {
			fmt.Fprintf(&buf, "  %s\n", op)
		}
	}

	return buf.String(), nil
}
