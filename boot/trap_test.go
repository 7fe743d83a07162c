// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"testing"
)

func TestCoreLocalException(t *testing.T) {
	var code int
	var generic bool

	h := &TrapHandlers{}

	h.Exceptions[Breakpoint] = func(_ *TrapFrame) {
		code = Breakpoint
	}

	h.Exception = func(_ *TrapFrame) {
		generic = true
	}

	if err := h.CoreLocal(Breakpoint, 0, &TrapFrame{}); err != nil {
		t.Fatal(err)
	}

	if code != Breakpoint {
		t.Error("per-code exception handler not invoked")
	}

	// the generic fallback always runs after the per-code handler
	if !generic {
		t.Error("generic exception handler not invoked")
	}
}

func TestCoreLocalUnhandledException(t *testing.T) {
	h := &TrapHandlers{}

	if err := h.CoreLocal(LoadFault, 0xdeadbeef, &TrapFrame{}); err == nil {
		t.Error("unhandled exception should be terminal")
	}
}

func TestCoreLocalIgnoreZeroMtval(t *testing.T) {
	h := &TrapHandlers{IgnoreZeroMtval: true}

	// mtval 0 on illegal instruction is dropped (HPM6700 errata)
	if err := h.CoreLocal(IllegalInstruction, 0, &TrapFrame{}); err != nil {
		t.Errorf("zero mtval illegal instruction should be ignored, %v", err)
	}

	if err := h.CoreLocal(IllegalInstruction, 0x13, &TrapFrame{}); err == nil {
		t.Error("non-zero mtval illegal instruction should be terminal")
	}
}

func TestCoreLocalInterrupt(t *testing.T) {
	var timer bool
	var stub bool

	h := &TrapHandlers{
		Default: func() {
			stub = true
		},
	}

	h.Interrupts[MachineTimer] = func() {
		timer = true
	}

	if err := h.CoreLocal(causeInterrupt|MachineTimer, 0, nil); err != nil {
		t.Fatal(err)
	}

	if !timer || stub {
		t.Error("per-code interrupt handler not selected")
	}

	if err := h.CoreLocal(causeInterrupt|MachineSoft, 0, nil); err != nil {
		t.Fatal(err)
	}

	if !stub {
		t.Error("unhandled interrupt should fall back to the stub")
	}
}

func TestCoreLocalUnhandledInterrupt(t *testing.T) {
	h := &TrapHandlers{}

	if err := h.CoreLocal(causeInterrupt|MachineExternal, 0, nil); err == nil {
		t.Error("unhandled interrupt without a stub should be terminal")
	}
}

func TestMTVEC(t *testing.T) {
	if v := MTVEC(0x2000, false); v != 0x2000 {
		t.Errorf("direct mode mtvec %#x, expected 0x2000", v)
	}

	if v := MTVEC(0x2000, true); v != 0x2001 {
		t.Errorf("vectored mode mtvec %#x, expected 0x2001", v)
	}

	// the mode field never leaks from the base address
	if v := MTVEC(0x2003, false); v != 0x2000 {
		t.Errorf("mtvec base not masked, %#x", v)
	}
}
