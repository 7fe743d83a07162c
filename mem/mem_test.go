// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"testing"
)

func TestRegion(t *testing.T) {
	r := Region{Name: "DLM", Origin: 0x80000, Length: 0x20000}

	if r.End() != 0xa0000 {
		t.Errorf("region end %#x, expected 0xa0000", r.End())
	}

	if r.Empty() {
		t.Error("sized region reported empty")
	}

	if !r.Contains(0x80000, 0xa0000) || r.Contains(0x7fff0, 0x80010) {
		t.Error("unexpected containment")
	}

	if !(Region{}).Empty() {
		t.Error("zero region should be empty")
	}
}

func TestCatalogueValidate(t *testing.T) {
	for _, chip := range []Catalogue{HPM5301(), HPM6750()} {
		if err := chip.Validate(); err != nil {
			t.Errorf("chip catalogue invalid, %v", err)
		}
	}

	cat := HPM5301()
	delete(cat, RegionStack)

	if err := cat.Validate(); err == nil {
		t.Error("missing required region should be rejected")
	}

	cat = HPM5301()
	cat[RegionHeap] = Region{}

	if err := cat.Validate(); err == nil {
		t.Error("empty required region should be rejected")
	}
}

func TestCatalogueOptionalRegions(t *testing.T) {
	cat := HPM5301()

	// HPM5301 has no dedicated non-cacheable RAM
	if !cat.Region(RegionNonCacheableRAM).Empty() {
		t.Error("absent optional region should resolve to an empty region")
	}

	if cat.Region(RegionAHBSRAM).Empty() {
		t.Error("AHB SRAM should be present")
	}
}

func TestChipCatalogues(t *testing.T) {
	cat := HPM5301()

	// the first flash page is reserved for the XPI boot header
	if text := cat.Region(RegionText); text.Origin != 0x80001000 {
		t.Errorf("text origin %#x, expected 0x80001000", text.Origin)
	}

	cat = HPM6750()

	nc := cat.Region(RegionNonCacheableRAM)
	data := cat.Region(RegionData)

	if nc.Empty() {
		t.Fatal("HPM6750 should define a non-cacheable window")
	}

	// the non-cacheable window is carved out of AXI SRAM, not overlapped
	if data.End() > nc.Origin {
		t.Errorf("data region %#x-%#x overlaps non-cacheable window at %#x", data.Origin, data.End(), nc.Origin)
	}

	// NAPOT constraints on the carved window
	if size := nc.Length; size&(size-1) != 0 || nc.Origin&(size-1) != 0 {
		t.Error("non-cacheable window must be a naturally aligned power of two")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config

	cfg.SetDefaults()

	if cfg.StackSize != DefaultStackSize || cfg.HartStackSize != DefaultHartStackSize {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	if cfg.HeapSize != 0 {
		t.Error("heap should stay disabled unless configured")
	}

	if cfg.Harts() != 1 {
		t.Errorf("expected a single hart, got %d", cfg.Harts())
	}

	cfg = Config{StackSize: 0x1000, MaxHartID: 1}
	cfg.SetDefaults()

	if cfg.StackSize != 0x1000 {
		t.Error("configured stack size should be preserved")
	}

	if cfg.Harts() != 2 {
		t.Errorf("expected two harts, got %d", cfg.Harts())
	}
}
