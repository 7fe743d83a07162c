// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"fmt"
	"runtime"
	"sync"
)

// SimCore is a Core implementation for host simulation, recording every
// hardware operation in order.
type SimCore struct {
	Hart int

	mu    sync.Mutex
	trace []string

	SP       uint32
	GP       uint32
	TrapBase uint32
	PMA      []PMAEntry

	InterruptsEnabled bool
	FPUEnabled        bool
	ICacheEnabled     bool
	DCacheEnabled     bool
	Vectored          bool
	CycleCounter      bool
	PLICSources       int
}

func (c *SimCore) record(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.trace = append(c.trace, fmt.Sprintf(format, args...))
}

// Trace returns the recorded operations.
func (c *SimCore) Trace() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string{}, c.trace...)
}

func (c *SimCore) HartID() int {
	return c.Hart
}

func (c *SimCore) DisableInterrupts() {
	c.InterruptsEnabled = false
	c.record("csrw mie, 0")
}

func (c *SimCore) EnableInterrupts() {
	c.InterruptsEnabled = true
	c.record("csrs mstatus, MIE")
}

func (c *SimCore) SetGlobalPointer(addr uint32) {
	c.GP = addr
	c.record("gp = %#x", addr)
}

func (c *SimCore) SetStackPointer(addr uint32) {
	c.SP = addr
	c.record("sp = %#x", addr)
}

func (c *SimCore) SetTrapBase(mtvec uint32) {
	c.TrapBase = mtvec
	c.record("csrw mtvec, %#x", mtvec)
}

func (c *SimCore) EnableFPU() {
	c.FPUEnabled = true
	c.record("fpu on")
}

func (c *SimCore) EnableICache() {
	c.ICacheEnabled = true
	c.record("icache on")
}

func (c *SimCore) EnableDCache() {
	c.DCacheEnabled = true
	c.record("dcache on")
}

func (c *SimCore) InvalidateDCache() {
	c.record("dcache invalidate")
}

func (c *SimCore) ConfigurePMA(e PMAEntry) {
	c.PMA = append(c.PMA, e)
	c.record("pma%d addr:%#x cfg:%#x", e.Index, e.Addr, e.Cfg)
}

func (c *SimCore) ResetPLIC(sources int) {
	c.PLICSources = sources
	c.record("plic reset (%d sources)", sources)
}

func (c *SimCore) EnableCycleCounter() {
	c.CycleCounter = true
	c.record("csrs mcounteren, CY")
}

func (c *SimCore) EnableVectoredPLIC() {
	c.Vectored = true
	c.record("plic vectored on")
}

func (c *SimCore) Idle() {
	runtime.Gosched()
}
