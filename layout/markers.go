// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package layout

// Markers holds the symbolic boundary addresses derived from a solved plan,
// the runtime equivalent of the reference linker script symbols. They are
// read-only once placement is solved.
type Markers struct {
	Vectors          Span
	FastText         Span
	Text             Span
	Rodata           Span
	Data             Span
	BSS              Span
	FastData         Span
	FastBSS          Span
	NonCacheableData Span
	NonCacheableBSS  Span
	Heap             Span
	Stack            Span

	// flash addresses of the copy-on-boot section bytes
	VectorsLoad          uint32
	FastTextLoad         uint32
	DataLoad             uint32
	FastDataLoad         uint32
	NonCacheableDataLoad uint32

	// GlobalPointer is the gp base, data start biased by the linker
	// relaxation window
	GlobalPointer uint32
}

// NonCacheable returns the combined non-cacheable window (data followed by
// bss), the span covered by the PMA entry at boot.
func (m Markers) NonCacheable() Span {
	switch {
	case m.NonCacheableData.Empty() && m.NonCacheableBSS.Empty():
		return Span{}
	case m.NonCacheableData.Empty():
		return m.NonCacheableBSS
	case m.NonCacheableBSS.Empty():
		return m.NonCacheableData
	}

	return Span{Start: m.NonCacheableData.Start, End: m.NonCacheableBSS.End}
}

func merge(group Span, s Span) Span {
	if group.Empty() {
		return s
	}

	if s.Empty() {
		return group
	}

	if s.Start < group.Start {
		group.Start = s.Start
	}

	if s.End > group.End {
		group.End = s.End
	}

	return group
}

// Markers derives the boundary marker set from the plan. Sections of the
// same kind are merged into a single group span, matching their contiguous
// placement.
func (p *Plan) Markers() (m Markers) {
	for _, s := range p.Sections {
		switch s.Kind {
		case VectorTable:
			m.Vectors = merge(m.Vectors, s.Span)

			if m.VectorsLoad == 0 {
				m.VectorsLoad = s.Load.Start
			}
		case FastCode:
			m.FastText = merge(m.FastText, s.Span)

			if m.FastTextLoad == 0 {
				m.FastTextLoad = s.Load.Start
			}
		case Code:
			m.Text = merge(m.Text, s.Span)
		case Rodata:
			m.Rodata = merge(m.Rodata, s.Span)
		case InitData:
			m.Data = merge(m.Data, s.Span)

			if m.DataLoad == 0 {
				m.DataLoad = s.Load.Start
			}
		case ZeroData:
			m.BSS = merge(m.BSS, s.Span)
		case FastData:
			m.FastData = merge(m.FastData, s.Span)

			if m.FastDataLoad == 0 {
				m.FastDataLoad = s.Load.Start
			}
		case FastZero:
			m.FastBSS = merge(m.FastBSS, s.Span)
		case NonCacheableData:
			m.NonCacheableData = merge(m.NonCacheableData, s.Span)

			if m.NonCacheableDataLoad == 0 {
				m.NonCacheableDataLoad = s.Load.Start
			}
		case NonCacheableZero:
			m.NonCacheableBSS = merge(m.NonCacheableBSS, s.Span)
		case Heap:
			m.Heap = merge(m.Heap, s.Span)
		case Stack:
			m.Stack = merge(m.Stack, s.Span)
		}
	}

	if !m.Data.Empty() {
		m.GlobalPointer = m.Data.Start + 0x800
	}

	return
}
