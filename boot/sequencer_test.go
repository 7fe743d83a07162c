// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestBootPrimary(t *testing.T) {
	img := testImage(t)
	ram := testRAM()

	var entered []int

	seq := New(img, ram, Hooks{
		Entry: func(hart int) {
			entered = append(entered, hart)
		},
	})

	core := &SimCore{Hart: 0}

	if err := seq.Boot(core); !errors.Is(err, ErrEntryReturned) {
		t.Fatalf("expected ErrEntryReturned, got %v", err)
	}

	if !reflect.DeepEqual(entered, []int{0}) {
		t.Fatalf("entry hook saw harts %v", entered)
	}

	expect := []string{
		"csrw mie, 0",
		"gp = 0x80800",
		"sp = 0x81370",
		"csrw mtvec, 0x24",
		"fpu on",
		"icache on",
		"dcache on",
		"dcache invalidate",
		"pma1 addr:0x40003 cfg:0x2f",
		"plic reset (8 sources)",
		"csrs mcounteren, CY",
		"csrw mtvec, 0x1",
		"plic vectored on",
		"csrs mstatus, MIE",
	}

	if trace := core.Trace(); !reflect.DeepEqual(trace, expect) {
		t.Errorf("unexpected startup sequence:\n got %q\nwant %q", trace, expect)
	}

	if !core.InterruptsEnabled || !core.Vectored || !core.CycleCounter {
		t.Error("interrupt delivery state not reached")
	}

	// the image sections must be live before entry
	m := img.Plan.Markers()

	if buf := read(t, ram, m.Data); buf[0] != 0xcc {
		t.Error("sections not loaded before entry")
	}
}

func TestBootSecondary(t *testing.T) {
	img := testImage(t)
	ram := testRAM()

	var mu sync.Mutex
	var entered []int

	seq := New(img, ram, Hooks{
		Entry: func(hart int) {
			mu.Lock()
			defer mu.Unlock()

			entered = append(entered, hart)
		},
	})

	secondary := &SimCore{Hart: 1}
	done := make(chan error)

	go func() {
		done <- seq.Boot(secondary)
	}()

	primary := &SimCore{Hart: 0}

	if err := seq.Boot(primary); !errors.Is(err, ErrEntryReturned) {
		t.Fatalf("primary boot: %v", err)
	}

	if err := <-done; !errors.Is(err, ErrEntryReturned) {
		t.Fatalf("secondary boot: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(entered) != 2 {
		t.Fatalf("entry hook saw harts %v", entered)
	}

	if secondary.SP != 0x80b70 {
		t.Errorf("hart 1 stack pointer %#x, expected 0x80b70", secondary.SP)
	}

	// section loading and PLIC reset belong to the primary hart only
	for _, op := range secondary.Trace() {
		if op == "plic reset (8 sources)" {
			t.Error("secondary hart performed primary-only setup")
		}
	}

	if !secondary.Vectored || !secondary.InterruptsEnabled {
		t.Error("secondary hart interrupt state not reached")
	}
}

func TestBootHartRange(t *testing.T) {
	seq := New(testImage(t), testRAM(), Hooks{Entry: func(int) {}})

	if err := seq.Boot(&SimCore{Hart: 2}); err == nil {
		t.Error("hart outside the configured range should be rejected")
	}
}

func TestBootNoEntry(t *testing.T) {
	seq := New(testImage(t), testRAM(), Hooks{})

	err := seq.Boot(&SimCore{Hart: 0})

	if err == nil || errors.Is(err, ErrEntryReturned) {
		t.Errorf("missing entry point should fail the entry stage, got %v", err)
	}
}

func TestBootSetupInterruptsHook(t *testing.T) {
	fault := errors.New("plic unavailable")

	seq := New(testImage(t), testRAM(), Hooks{
		SetupInterrupts: func(_ Core) error {
			return fault
		},
		Entry: func(int) {},
	})

	err := seq.Boot(&SimCore{Hart: 0})

	if err == nil || !strings.Contains(err.Error(), fault.Error()) {
		t.Errorf("expected the hook error to surface, got %v", err)
	}

	if err != nil && !strings.Contains(err.Error(), SetupInterrupts.String()) {
		t.Errorf("expected the failing stage to be named, got %v", err)
	}
}

func TestBootPrimaryHook(t *testing.T) {
	img := testImage(t)
	ram := testRAM()

	seq := New(img, ram, Hooks{
		Primary: func(hart int) bool {
			return hart == 1
		},
		Entry: func(int) {},
	})

	core := &SimCore{Hart: 1}

	if err := seq.Boot(core); !errors.Is(err, ErrEntryReturned) {
		t.Fatalf("expected ErrEntryReturned, got %v", err)
	}

	if core.PLICSources != 8 {
		t.Error("designated primary hart did not perform interrupt setup")
	}
}

func TestBootPreInit(t *testing.T) {
	img := testImage(t)
	ram := testRAM()

	var preInit bool
	var loadedAtPreInit bool

	seq := New(img, ram, Hooks{
		PreInit: func() {
			preInit = true

			// static storage is not initialized yet at this point
			buf := make([]byte, 1)

			if err := ram.Read(0x00080000, buf); err == nil && buf[0] != 0 {
				loadedAtPreInit = true
			}
		},
		Entry: func(int) {},
	})

	if err := seq.Boot(&SimCore{Hart: 0}); !errors.Is(err, ErrEntryReturned) {
		t.Fatal(err)
	}

	if !preInit {
		t.Error("pre-init hook not invoked")
	}

	if loadedAtPreInit {
		t.Error("sections were loaded before the pre-init hook")
	}
}
