// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"fmt"

	"github.com/usbarmory/tamago/bits"
)

// mcause interrupt flag
const causeInterrupt = 1 << 31

// Exception codes (mcause, interrupt flag clear).
const (
	InstructionMisaligned = 0
	InstructionFault      = 1
	IllegalInstruction    = 2
	Breakpoint            = 3
	LoadMisaligned        = 4
	LoadFault             = 5
	StoreMisaligned       = 6
	StoreFault            = 7
	UserEnvCall           = 8
	SupervisorEnvCall     = 9
	MachineEnvCall        = 11
	InstructionPageFault  = 12
	LoadPageFault         = 13
	StorePageFault        = 15
)

// Core interrupt codes (mcause, interrupt flag set).
const (
	SupervisorSoft     = 1
	MachineSoft        = 3 // PLICSW
	SupervisorTimer    = 5
	MachineTimer       = 7 // MCHTMR
	SupervisorExternal = 9
	MachineExternal    = 11
)

// TrapFrame holds the caller-saved registers preserved across a trap.
type TrapFrame struct {
	RA uint32
	T0 uint32
	T1 uint32
	T2 uint32
	T3 uint32
	T4 uint32
	T5 uint32
	T6 uint32
	A0 uint32
	A1 uint32
	A2 uint32
	A3 uint32
	A4 uint32
	A5 uint32
	A6 uint32
	A7 uint32
}

// TrapHandlers is the dispatch model behind vector table entry 0: exceptions
// and core interrupts share the CORE_LOCAL slot in PLIC vectored mode and
// are demultiplexed on mcause.
type TrapHandlers struct {
	// Exceptions dispatches on exception code
	Exceptions [16]func(*TrapFrame)
	// Interrupts dispatches on core interrupt code
	Interrupts [14]func()
	// Exception is the generic exception fallback, always invoked after
	// the per-code handler
	Exception func(*TrapFrame)
	// Default is the generic unhandled-interrupt stub
	Default func()
	// IgnoreZeroMtval drops illegal instruction exceptions carrying a
	// zero mtval (HPM6700 errata)
	IgnoreZeroMtval bool
}

// CoreLocal dispatches a trap. Unhandled traps return an error, which is
// terminal for the hart: before the dispatch table is live there is no
// trustworthy environment to recover in, and after it only application
// overrides may resolve a trap.
func (h *TrapHandlers) CoreLocal(cause uint32, tval uint32, frame *TrapFrame) error {
	code := int(cause &^ uint32(causeInterrupt))

	if cause&causeInterrupt == 0 {
		if h.IgnoreZeroMtval && code == IllegalInstruction && tval == 0 {
			return nil
		}

		handled := false

		if code < len(h.Exceptions) && h.Exceptions[code] != nil {
			h.Exceptions[code](frame)
			handled = true
		}

		if h.Exception != nil {
			h.Exception(frame)
			handled = true
		}

		if !handled {
			return fmt.Errorf("unhandled exception %d (tval %#x)", code, tval)
		}

		return nil
	}

	if code < len(h.Interrupts) && h.Interrupts[code] != nil {
		h.Interrupts[code]()
		return nil
	}

	if h.Default != nil {
		h.Default()
		return nil
	}

	return fmt.Errorf("unhandled core interrupt %d", code)
}

// MTVEC returns the trap vector CSR value for the given base address, with
// the mode field set for vectored dispatch when requested. The hardware
// ignores the mode once PLIC vectored dispatch is enabled, the bit is kept
// for inspection.
func MTVEC(base uint32, vectored bool) uint32 {
	v := base &^ uint32(0x3)

	if vectored {
		bits.Set(&v, 0)
	}

	return v
}
