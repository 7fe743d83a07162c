// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// Default configuration values applied by Config.SetDefaults.
const (
	// DefaultStackSize is the total stack budget (16 KiB)
	DefaultStackSize = 0x4000
	// DefaultHeapSize disables the heap unless configured
	DefaultHeapSize = 0
	// DefaultHartStackSize is the per-hart stack partition (2 KiB)
	DefaultHartStackSize = 0x800
)

// Config holds the integrator supplied sizing values consumed by section
// placement and validation.
type Config struct {
	// StackSize is the total size of the stack section
	StackSize uint32
	// HeapSize is the size of the heap section
	HeapSize uint32
	// MaxHartID is the highest hart identifier (0 for single hart)
	MaxHartID int
	// HartStackSize is the stack partition size of each hart
	HartStackSize uint32
}

// SetDefaults initializes unset configuration values.
func (c *Config) SetDefaults() {
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}

	if c.HartStackSize == 0 {
		c.HartStackSize = DefaultHartStackSize
	}
}

// Harts returns the number of harts.
func (c Config) Harts() int {
	return c.MaxHartID + 1
}
