// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package layout

import (
	"testing"

	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

func violations(t *testing.T, p *Plan, check Check) (match []Violation) {
	t.Helper()

	for _, v := range Validate(p) {
		if v.Check == check {
			match = append(match, v)
		}
	}

	return
}

func TestValidateClean(t *testing.T) {
	if v := Validate(testPlan(t)); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestValidateStackSize(t *testing.T) {
	cat := testCatalogue()
	cat[mem.RegionStack] = mem.Region{Name: "STACK", Origin: 0x00090000, Length: 0x800}

	cfg := mem.Config{StackSize: 0x800, HartStackSize: 0x800}

	p, err := Place(cat, cfg, testSections())

	if err != nil {
		t.Fatal(err)
	}

	// one hart needing 0x800 must leave margin in an 0x800 byte region
	if v := violations(t, p, CheckStackSize); len(v) != 1 {
		t.Fatalf("expected a stack sizing violation, got %v", Validate(p))
	}

	cat[mem.RegionStack] = mem.Region{Name: "STACK", Origin: 0x00090000, Length: 0x1000}

	if p, err = Place(cat, cfg, testSections()); err != nil {
		t.Fatal(err)
	}

	if v := violations(t, p, CheckStackSize); len(v) != 0 {
		t.Errorf("expected no stack sizing violation, got %v", v)
	}
}

func TestValidateTextBounds(t *testing.T) {
	cat := testCatalogue()
	text := cat.Region(mem.RegionText)

	// code filling the region up to its very end leaves no room for the
	// end marker to stay strictly inside it
	p := &Plan{
		Catalogue: cat,
		Config:    testConfig(),
		Sections: []Placed{
			{
				Section: Section{Kind: Code},
				Span:    Span{text.Origin, text.End()},
			},
		},
	}

	if v := violations(t, p, CheckTextBounds); len(v) != 1 {
		t.Errorf("expected a text bounds violation, got %v", Validate(p))
	}
}

func TestValidateDataAlignment(t *testing.T) {
	p := &Plan{
		Catalogue: testCatalogue(),
		Config:    testConfig(),
		Sections: []Placed{
			{
				Section: Section{Kind: InitData},
				Span:    Span{0x80002, 0x80042},
				Load:    Span{0x80001380, 0x800013c0},
			},
		},
	}

	if v := violations(t, p, CheckDataAlignment); len(v) != 2 {
		t.Errorf("expected two data alignment violations, got %v", Validate(p))
	}
}

func TestValidateRegionAlignment(t *testing.T) {
	cat := testCatalogue()
	cat[mem.RegionHeap] = mem.Region{Name: "ODD", Origin: 0x00090002, Length: 0x1000}

	p := &Plan{Catalogue: cat, Config: testConfig()}

	if v := violations(t, p, CheckRegionAlignment); len(v) != 1 {
		t.Errorf("expected a region alignment violation, got %v", Validate(p))
	}
}

func TestValidateRelocations(t *testing.T) {
	p := testPlan(t)
	p.RelocTableSize = 8

	v := violations(t, p, CheckRelocations)

	if len(v) != 1 {
		t.Fatalf("expected a relocation violation, got %v", Validate(p))
	}

	if v[0].Have != 8 {
		t.Errorf("violation reports %d bytes, expected 8", v[0].Have)
	}
}
