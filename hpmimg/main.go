// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// hpmimg builds and inspects flash images for HPMicro RISC-V
// microcontrollers, placing firmware sections against a memory region
// catalogue and emitting the boot vector table.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"runtime"

	"github.com/hpmicro-rs/hpm-riscv-rt/hpmimg/cmd"
	"github.com/hpmicro-rs/hpm-riscv-rt/image"
	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
	"github.com/hpmicro-rs/hpm-riscv-rt/util"
	"github.com/hpmicro-rs/hpm-riscv-rt/vector"
)

var (
	elfPath  string
	chip     string
	memPath  string
	outPath  string
	listen   string
	console  bool
	sources  int
	maxHart  int
	stack    uint
	heap     uint
	hartSize uint
)

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)

	flag.StringVar(&elfPath, "e", "", "application ELF")
	flag.StringVar(&chip, "c", "hpm5301", "target chip (hpm5301, hpm6750)")
	flag.StringVar(&memPath, "m", "", "memory region description file (overrides -c)")
	flag.StringVar(&outPath, "o", "", "output flash image")
	flag.StringVar(&listen, "l", "", "serve console over SSH (e.g. :2222)")
	flag.BoolVar(&console, "i", false, "interactive console on standard input")
	flag.IntVar(&sources, "n", 128, "external interrupt sources")
	flag.IntVar(&maxHart, "H", 0, "maximum hart identifier")
	flag.UintVar(&stack, "s", 0, "stack size in bytes (0 for default)")
	flag.UintVar(&heap, "p", 0, "heap size in bytes")
	flag.UintVar(&hartSize, "S", 0, "per hart stack size in bytes (0 for default)")
}

func catalogue() (cat mem.Catalogue, err error) {
	if len(memPath) > 0 {
		f, err := os.Open(memPath)

		if err != nil {
			return nil, err
		}
		defer f.Close()

		return mem.Parse(f)
	}

	switch chip {
	case "hpm5301":
		cat = mem.HPM5301()
	case "hpm6750":
		cat = mem.HPM6750()
	default:
		err = fmt.Errorf("unsupported chip %q", chip)
	}

	return
}

func build() (img *image.Image, cat mem.Catalogue, err error) {
	buf, err := os.ReadFile(elfPath)

	if err != nil {
		return
	}

	fw, err := image.ReadFirmware(buf)

	if err != nil {
		return nil, nil, fmt.Errorf("could not parse %s, %v", elfPath, err)
	}

	if cat, err = catalogue(); err != nil {
		return
	}

	cfg := mem.Config{
		StackSize:     uint32(stack),
		HeapSize:      uint32(heap),
		MaxHartID:     maxHart,
		HartStackSize: uint32(hartSize),
	}

	tableSize := uint32((1 + sources) * vector.EntrySize)

	plan, err := layout.Place(cat, cfg, fw.LayoutSections(tableSize))

	if err != nil {
		return
	}

	plan.RelocTableSize = fw.RelocTableSize

	if violations := layout.Validate(plan); len(violations) > 0 {
		for _, v := range violations {
			log.Printf("validation: %v", v)
		}

		return nil, nil, fmt.Errorf("placement validation failed (%d violations)", len(violations))
	}

	markers := plan.Markers()

	vcfg := vector.Config{
		Base:    markers.Vectors.Start,
		Sources: sources,
	}

	if addr, ok := fw.Symbol(vector.CoreLocalHandler); ok {
		vcfg.CoreLocal = addr
	}

	if addr, ok := fw.Symbol(vector.DefaultHandler); ok {
		vcfg.Default = addr
	} else if vcfg.CoreLocal == 0 {
		vcfg.Default = fw.Entry
	}

	names := make([]string, sources)

	for i := 0; i < sources; i++ {
		names[i] = fmt.Sprintf("IRQ%d", i)
	}

	vcfg.Resolve(names, fw.Symbol)

	tbl, err := vector.Build(vcfg)

	if err != nil {
		return
	}

	if img, err = image.Build(plan, tbl); err != nil {
		return
	}

	img.Entry = fw.Entry

	return
}

func sshConsole() {
	l, err := net.Listen("tcp", listen)

	if err != nil {
		log.Fatalf("listen error, %v", err)
	}

	c := &util.Console{
		Banner:  cmd.Banner,
		Help:    cmd.HelpText(),
		Handler: cmd.Handle,
	}

	log.Printf("console on %s", listen)

	if err = c.Start(l); err != nil {
		log.Fatalf("console error, %v", err)
	}

	select {}
}

func main() {
	flag.Parse()

	cmd.Banner = fmt.Sprintf("hpmimg • %s/%s (%s)", runtime.GOOS, runtime.GOARCH, runtime.Version())

	if len(elfPath) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	img, cat, err := build()

	if err != nil {
		log.Fatalf("%v", err)
	}

	cmd.Image = img
	cmd.Catalogue = cat

	m := img.Plan.Markers()

	log.Printf("image %#08x - %#08x entry %#08x vectors %#08x",
		img.Base, img.Base+uint32(len(img.Flash)), img.Entry, m.Vectors.Start)

	if len(outPath) > 0 {
		out, err := os.Create(outPath)

		if err != nil {
			log.Fatalf("%v", err)
		}

		if _, err = img.WriteTo(out); err != nil {
			log.Fatalf("could not write %s, %v", outPath, err)
		}

		_ = out.Close()

		log.Printf("wrote %d bytes to %s", len(img.Flash), outPath)
	}

	switch {
	case len(listen) > 0:
		sshConsole()
	case console:
		cmd.SerialConsole()
	}
}
