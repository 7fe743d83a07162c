// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package boot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hpmicro-rs/hpm-riscv-rt/image"
)

// Stage identifies a startup step. The sequence is linear, synchronous and
// never skips a stage.
type Stage int

const (
	Reset Stage = iota
	SetupStack
	PreInit
	LoadSections
	EnableFPU
	EnableCaches
	ConfigureNonCacheable
	SetupInterrupts
	Entry
)

func (s Stage) String() string {
	switch s {
	case Reset:
		return "reset"
	case SetupStack:
		return "setup-stack"
	case PreInit:
		return "pre-init"
	case LoadSections:
		return "load-sections"
	case EnableFPU:
		return "enable-fpu"
	case EnableCaches:
		return "enable-caches"
	case ConfigureNonCacheable:
		return "configure-noncacheable"
	case SetupInterrupts:
		return "setup-interrupts"
	case Entry:
		return "entry"
	}

	return "unknown"
}

// ErrEntryReturned is the fatal condition raised when the application entry
// point returns, there is no return path past JumpToEntry.
var ErrEntryReturned = errors.New("application entry returned")

// Core abstracts the per-hart hardware operations performed during startup.
type Core interface {
	HartID() int

	DisableInterrupts()
	EnableInterrupts()

	SetGlobalPointer(addr uint32)
	SetStackPointer(addr uint32)
	SetTrapBase(mtvec uint32)

	EnableFPU()
	EnableICache()
	EnableDCache()
	InvalidateDCache()

	ConfigurePMA(e PMAEntry)

	ResetPLIC(sources int)
	EnableCycleCounter()
	EnableVectoredPLIC()

	// Idle suspends the hart until an event (WFI)
	Idle()
}

// Hooks are the application supplied extension points of the startup
// sequence.
type Hooks struct {
	// PreInit runs with interrupts disabled and a valid stack, before
	// any section has been loaded; it must not touch static storage.
	PreInit func()
	// Primary reports whether a hart is the primary one; nil gates on
	// hart 0.
	Primary func(hart int) bool
	// SetupInterrupts overrides the default interrupt setup.
	SetupInterrupts func(c Core) error
	// Entry is the application entry point; it is expected to never
	// return.
	Entry func(hart int)
}

// Sequencer drives the startup state machine over a verified image. Every
// hart runs Boot on its own Core; only the primary hart loads sections and
// installs the dispatch table, secondaries park until released.
type Sequencer struct {
	Image  *image.Image
	Memory Memory
	Hooks  Hooks

	once     sync.Once
	released chan struct{}
}

// New returns a Sequencer over a built image and its target memory.
func New(img *image.Image, m Memory, hooks Hooks) *Sequencer {
	return &Sequencer{
		Image:    img,
		Memory:   m,
		Hooks:    hooks,
		released: make(chan struct{}),
	}
}

func (s *Sequencer) primary(hart int) bool {
	if s.Hooks.Primary != nil {
		return s.Hooks.Primary(hart)
	}

	return hart == 0
}

func (s *Sequencer) release() {
	s.once.Do(func() {
		close(s.released)
	})
}

func fail(stage Stage, err error) error {
	return fmt.Errorf("%v stage failed, %v", stage, err)
}

// Boot runs the startup sequence on a hart. A non-nil return is fatal: on
// target there is no caller to report to and the hart parks, the error
// value exists for simulation and tests. Boot does not return on success
// until the application entry point does, which is itself fatal.
func (s *Sequencer) Boot(c Core) (err error) {
	cfg := s.Image.Plan.Config
	hart := c.HartID()

	if hart < 0 || hart > cfg.MaxHartID {
		return fmt.Errorf("hart %d outside configured range 0-%d", hart, cfg.MaxHartID)
	}

	m := s.Image.Plan.Markers()

	// Reset: interrupts stay disabled until SetupInterrupts completes
	c.DisableInterrupts()

	// SetupStack: per-hart partition carved from the stack section
	c.SetGlobalPointer(m.GlobalPointer)
	c.SetStackPointer(s.Image.Plan.StackTop(hart))

	// route early faults to the terminal stub until the table is live
	c.SetTrapBase(MTVEC(s.Image.Table.Entry(0), false))

	if !s.primary(hart) {
		return s.secondary(c)
	}

	if s.Hooks.PreInit != nil {
		s.Hooks.PreInit()
	}

	if err = NewLoader(s.Image).Load(s.Memory); err != nil {
		return fail(LoadSections, err)
	}

	c.EnableFPU()

	c.EnableICache()
	c.EnableDCache()
	c.InvalidateDCache()

	if e, ok, err := NonCacheableWindow(m.NonCacheable()); err != nil {
		return fail(ConfigureNonCacheable, err)
	} else if ok {
		c.ConfigurePMA(e)
	}

	if s.Hooks.SetupInterrupts != nil {
		err = s.Hooks.SetupInterrupts(c)
	} else {
		err = s.setupInterrupts(c)
	}

	if err != nil {
		return fail(SetupInterrupts, err)
	}

	s.release()

	return s.enter(c, hart)
}

// setupInterrupts mirrors the reference sequence: PLIC cleanup, cycle
// counter, dispatch base install, vectored mode, then interrupt delivery as
// the very last act.
func (s *Sequencer) setupInterrupts(c Core) error {
	c.ResetPLIC(len(s.Image.Table.Entries) - 1)
	c.EnableCycleCounter()

	c.SetTrapBase(MTVEC(s.Image.Table.Base, true))
	c.EnableVectoredPLIC()

	c.EnableInterrupts()

	return nil
}

// secondary parks a non-primary hart until the primary completes interrupt
// setup, then brings up the hart local state and enters the application.
func (s *Sequencer) secondary(c Core) error {
	for {
		select {
		case <-s.released:
		default:
			c.Idle()
			continue
		}

		break
	}

	c.EnableFPU()

	c.EnableICache()
	c.EnableDCache()
	c.InvalidateDCache()

	c.SetTrapBase(MTVEC(s.Image.Table.Base, true))
	c.EnableVectoredPLIC()
	c.EnableInterrupts()

	return s.enter(c, c.HartID())
}

func (s *Sequencer) enter(c Core, hart int) error {
	if s.Hooks.Entry == nil {
		return fail(Entry, errors.New("no entry point"))
	}

	s.Hooks.Entry(hart)

	return ErrEntryReturned
}
