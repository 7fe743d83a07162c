// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"testing"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

func TestNonCacheableWindow(t *testing.T) {
	// 512KB window at 0x01200000, the HPM6750 reference configuration
	e, ok, err := NonCacheableWindow(layout.Span{Start: 0x01200000, End: 0x01280000})

	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("expected a PMA entry")
	}

	if e.Index != NonCacheablePMAEntry {
		t.Errorf("entry index %d, expected %d", e.Index, NonCacheablePMAEntry)
	}

	if e.Addr != 0x0048ffff {
		t.Errorf("NAPOT address %#x, expected 0x48ffff", e.Addr)
	}

	// NAPOT entry type, non-cacheable bufferable memory type, AMO enable
	if e.Cfg != 0x2f {
		t.Errorf("configuration %#x, expected 0x2f", e.Cfg)
	}
}

func TestNonCacheableWindowEmpty(t *testing.T) {
	_, ok, err := NonCacheableWindow(layout.Span{})

	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Error("empty window should not yield an entry")
	}
}

func TestNonCacheableWindowNotPowerOfTwo(t *testing.T) {
	if _, _, err := NonCacheableWindow(layout.Span{Start: 0x01200000, End: 0x01230000}); err == nil {
		t.Error("non power-of-two window should be rejected")
	}
}

func TestNonCacheableWindowMisaligned(t *testing.T) {
	if _, _, err := NonCacheableWindow(layout.Span{Start: 0x01210000, End: 0x01230000}); err == nil {
		t.Error("window not naturally aligned to its length should be rejected")
	}
}
