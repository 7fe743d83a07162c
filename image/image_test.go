// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package image

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
	"github.com/hpmicro-rs/hpm-riscv-rt/vector"
)

func testCatalogue() mem.Catalogue {
	flash := mem.Region{Name: "XPI0", Origin: 0x80001000, Length: 0x10000}
	ilm := mem.Region{Name: "ILM", Origin: 0x00000000, Length: 0x4000}
	dlm := mem.Region{Name: "DLM", Origin: 0x00080000, Length: 0x8000}

	return mem.Catalogue{
		mem.RegionText:            flash,
		mem.RegionRodata:          flash,
		mem.RegionData:            dlm,
		mem.RegionBSS:             dlm,
		mem.RegionHeap:            dlm,
		mem.RegionStack:           dlm,
		mem.RegionFastText:        ilm,
		mem.RegionFastData:        dlm,
		mem.RegionNonCacheableRAM: {Name: "NCRAM", Origin: 0x00100000, Length: 0x1000},
	}
}

func fill(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func testSections() []layout.Section {
	sections := layout.DefaultSections()

	for i := range sections {
		switch sections[i].Kind {
		case layout.VectorTable:
			sections[i].Size = 36
		case layout.FastCode:
			sections[i].Payload = fill(100, 0x13)
		case layout.Code:
			sections[i].Payload = fill(0x300, 0xaa)
		case layout.Rodata:
			sections[i].Payload = fill(0x80, 0xbb)
		case layout.InitData:
			sections[i].Payload = fill(0x40, 0xcc)
		case layout.ZeroData:
			sections[i].Size = 0x100
		case layout.FastData:
			sections[i].Payload = fill(0x10, 0xdd)
		case layout.FastZero:
			sections[i].Size = 0x20
		case layout.NonCacheableData:
			sections[i].Payload = fill(8, 0xee)
		case layout.NonCacheableZero:
			sections[i].Size = 0x18
		}
	}

	return sections
}

func testImage(t *testing.T) *Image {
	t.Helper()

	cfg := mem.Config{StackSize: 0x1000, HeapSize: 0x200, MaxHartID: 1, HartStackSize: 0x800}

	p, err := layout.Place(testCatalogue(), cfg, testSections())

	if err != nil {
		t.Fatal(err)
	}

	tbl, err := vector.Build(vector.Config{
		Base:      p.Markers().Vectors.Start,
		CoreLocal: 0x24,
		Default:   0x80001000,
		Sources:   8,
	})

	if err != nil {
		t.Fatal(err)
	}

	img, err := Build(p, tbl)

	if err != nil {
		t.Fatal(err)
	}

	return img
}

func TestBuildImage(t *testing.T) {
	img := testImage(t)

	if img.Base != 0x80001000 {
		t.Fatalf("image base %#x, expected 0x80001000", img.Base)
	}

	if len(img.Flash) != 0x460 {
		t.Fatalf("image size %#x, expected 0x460", len(img.Flash))
	}

	for _, tt := range []struct {
		name string
		off  uint32
		size int
		b    byte
	}{
		{".text", 0x000, 0x300, 0xaa},
		{".rodata", 0x300, 0x80, 0xbb},
		{".fast", 0x3a4, 100, 0x13},
		{".data", 0x408, 0x40, 0xcc},
		{".noncacheable.data", 0x458, 8, 0xee},
	} {
		if !bytes.Equal(img.Flash[tt.off:tt.off+uint32(tt.size)], fill(tt.size, tt.b)) {
			t.Errorf("section %s bytes misplaced at image offset %#x", tt.name, tt.off)
		}
	}

	// the vector table is emitted at its load address
	if entry := binary.LittleEndian.Uint32(img.Flash[0x380:]); entry != 0x24 {
		t.Errorf("vector table entry 0 reads %#x, expected 0x24", entry)
	}
}

func TestBuildImageGapFill(t *testing.T) {
	cat := testCatalogue()

	sections := []layout.Section{
		{Kind: layout.Code, Payload: []byte{0x01, 0x02}},
		{Kind: layout.InitData, Payload: []byte{0x03, 0x04, 0x05, 0x06}},
	}

	p, err := layout.Place(cat, mem.Config{}, sections)

	if err != nil {
		t.Fatal(err)
	}

	tbl := &vector.Table{Entries: []uint32{0x1000}}

	img, err := Build(p, tbl)

	if err != nil {
		t.Fatal(err)
	}

	// alignment padding between sections stays in the erased state
	if img.Flash[2] != 0xff || img.Flash[3] != 0xff {
		t.Errorf("image gap not erased: % x", img.Flash[0:8])
	}

	if !bytes.Equal(img.Flash[4:8], []byte{0x03, 0x04, 0x05, 0x06}) {
		t.Errorf("data load bytes misplaced: % x", img.Flash[4:8])
	}
}

func TestBuildImageAbsentOptionalRegion(t *testing.T) {
	cat := testCatalogue()
	delete(cat, mem.RegionNonCacheableRAM)

	cfg := mem.Config{StackSize: 0x1000, HeapSize: 0x200, MaxHartID: 1, HartStackSize: 0x800}

	// the firmware still carries .noncacheable.data payload bytes, the
	// chip simply has nowhere to place them
	p, err := layout.Place(cat, cfg, testSections())

	if err != nil {
		t.Fatal(err)
	}

	tbl, err := vector.Build(vector.Config{
		Base:      p.Markers().Vectors.Start,
		CoreLocal: 0x24,
		Default:   0x80001000,
		Sources:   8,
	})

	if err != nil {
		t.Fatal(err)
	}

	img, err := Build(p, tbl)

	if err != nil {
		t.Fatal(err)
	}

	// the image shrinks by the skipped load span
	if len(img.Flash) != 0x458 {
		t.Errorf("image size %#x, expected 0x458", len(img.Flash))
	}
}

func TestBuildImageBaseMismatch(t *testing.T) {
	cfg := mem.Config{StackSize: 0x1000, HeapSize: 0x200, MaxHartID: 1, HartStackSize: 0x800}

	p, err := layout.Place(testCatalogue(), cfg, testSections())

	if err != nil {
		t.Fatal(err)
	}

	tbl, err := vector.Build(vector.Config{
		Base:      0x200,
		CoreLocal: 0x24,
		Sources:   8,
	})

	if err != nil {
		t.Fatal(err)
	}

	if _, err = Build(p, tbl); err == nil {
		t.Error("vector table base disagreeing with placement should be rejected")
	}
}

func TestBuildEmptyImage(t *testing.T) {
	p := &layout.Plan{Catalogue: testCatalogue()}

	if _, err := Build(p, &vector.Table{Entries: []uint32{0x1000}}); err == nil {
		t.Error("plan without any flash resident section should be rejected")
	}
}

func TestBytes(t *testing.T) {
	img := testImage(t)

	buf, err := img.Bytes(layout.Span{Start: 0x80001300, End: 0x80001380})

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(buf, fill(0x80, 0xbb)) {
		t.Errorf("unexpected span bytes % x", buf[0:8])
	}

	if _, err = img.Bytes(layout.Span{Start: 0x80000000, End: 0x80000004}); err == nil {
		t.Error("span outside the image should be rejected")
	}
}

func TestWriteTo(t *testing.T) {
	img := testImage(t)

	var buf bytes.Buffer

	n, err := img.WriteTo(&buf)

	if err != nil {
		t.Fatal(err)
	}

	if n != int64(len(img.Flash)) || !bytes.Equal(buf.Bytes(), img.Flash) {
		t.Error("emitted blob does not match image bytes")
	}
}

func TestLayoutSections(t *testing.T) {
	fw := &Firmware{
		sections: map[string][]byte{
			".text":      fill(8, 0xaa),
			".fast.text": fill(4, 0x13),
		},
		sizes: map[string]uint32{
			".text":      8,
			".fast.text": 4,
			".bss":       0x40,
		},
	}

	sections := fw.LayoutSections(36)

	byKind := make(map[layout.Kind]layout.Section)

	for _, s := range sections {
		byKind[s.Kind] = s
	}

	if byKind[layout.VectorTable].Size != 36 {
		t.Errorf("vector table size %d, expected 36", byKind[layout.VectorTable].Size)
	}

	if !bytes.Equal(byKind[layout.Code].Payload, fill(8, 0xaa)) {
		t.Error("code payload not carried over")
	}

	// the reference toolchain spelling maps to the fast code section
	if !bytes.Equal(byKind[layout.FastCode].Payload, fill(4, 0x13)) {
		t.Error("fast code payload not resolved through its alternate name")
	}

	if byKind[layout.ZeroData].Size != 0x40 || byKind[layout.ZeroData].Payload != nil {
		t.Error("bss should carry size only")
	}

	if byKind[layout.Stack].Size != 0 {
		t.Error("stack sizing belongs to the placement configuration")
	}
}

func TestReadFirmwareRejectsGarbage(t *testing.T) {
	if _, err := ReadFirmware([]byte("not an elf")); err == nil {
		t.Error("garbage input should be rejected")
	}
}
