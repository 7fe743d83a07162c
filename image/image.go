// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package image assembles the flash resident runtime image from a solved
// placement plan: flash sections at their runtime addresses, copy-on-boot
// section bytes at their load addresses, vector table included.
package image

import (
	"fmt"
	"io"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
	"github.com/hpmicro-rs/hpm-riscv-rt/vector"
)

// flash erase state, gaps are left erased
const fillByte = 0xff

// Image is the verified runtime memory image. It is constructed once at
// build time and never mutated, the boot loader and inspection tooling only
// read it.
type Image struct {
	Plan  *layout.Plan
	Table *vector.Table

	// Entry is the application entry point
	Entry uint32
	// Base is the flash address of the first image byte
	Base uint32
	// Flash holds the load-side image bytes
	Flash []byte
}

// Build assembles the image. Section payloads must fit their spans and the
// vector table must match its placed section.
func Build(p *layout.Plan, t *vector.Table) (img *Image, err error) {
	lo := uint32(0xffffffff)
	hi := uint32(0)

	extend := func(s layout.Span) {
		if s.Empty() {
			return
		}

		if s.Start < lo {
			lo = s.Start
		}

		if s.End > hi {
			hi = s.End
		}
	}

	for _, s := range p.Sections {
		switch {
		case s.Kind == layout.Code || s.Kind == layout.Rodata:
			extend(s.Span)
		case s.Kind.CopyOnBoot():
			extend(s.Load)
		}
	}

	if hi <= lo {
		return nil, fmt.Errorf("empty image")
	}

	img = &Image{
		Plan:  p,
		Table: t,
		Base:  lo,
		Flash: make([]byte, hi-lo),
	}

	for i := range img.Flash {
		img.Flash[i] = fillByte
	}

	table := t.Encode()

	for _, s := range p.Sections {
		var at layout.Span
		var buf []byte

		// sections against an absent optional region are placed empty
		// and carry nothing into the image
		if s.Kind != layout.VectorTable && s.Span.Empty() {
			continue
		}

		switch {
		case s.Kind == layout.VectorTable:
			if s.Span.Empty() {
				return nil, fmt.Errorf("vector table section was not placed")
			}

			if t.Base != s.Span.Start {
				return nil, fmt.Errorf("vector table base %#x does not match placement %#x", t.Base, s.Span.Start)
			}

			at = s.Load
			buf = table
		case s.Kind == layout.Code || s.Kind == layout.Rodata:
			at = s.Span
			buf = s.Payload
		case s.Kind.CopyOnBoot():
			at = s.Load
			buf = s.Payload
		default:
			continue
		}

		if buf == nil {
			continue
		}

		if uint32(len(buf)) > at.Size() {
			return nil, fmt.Errorf("section %s payload (%d bytes) exceeds its span (%d bytes)", s.Kind, len(buf), at.Size())
		}

		copy(img.Flash[at.Start-img.Base:], buf)
	}

	return
}

// Bytes returns the image bytes backing a flash span.
func (img *Image) Bytes(s layout.Span) ([]byte, error) {
	if s.Start < img.Base || s.End > img.Base+uint32(len(img.Flash)) || s.End < s.Start {
		return nil, fmt.Errorf("span %#x-%#x outside image %#x-%#x", s.Start, s.End, img.Base, img.Base+uint32(len(img.Flash)))
	}

	return img.Flash[s.Start-img.Base : s.End-img.Base], nil
}

// WriteTo emits the flash blob, suitable for programming at Base.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(img.Flash)

	return int64(written), err
}
