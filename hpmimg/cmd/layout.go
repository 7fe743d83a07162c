// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

func init() {
	Add(Cmd{
		Name: "regions",
		Help: "memory region catalogue",
		Fn:   regionsCmd,
	})

	Add(Cmd{
		Name: "sections",
		Help: "placed sections and their load addresses",
		Fn:   sectionsCmd,
	})

	Add(Cmd{
		Name: "markers",
		Help: "startup marker symbols",
		Fn:   markersCmd,
	})

	Add(Cmd{
		Name: "validate",
		Help: "run placement validation checks",
		Fn:   validateCmd,
	})
}

func regionsCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer
	var names []string

	for name := range Catalogue {
		names = append(names, name)
	}

	sort.Strings(names)

	t := tabwriter.NewWriter(&buf, 16, 8, 0, '\t', tabwriter.TabIndent)
	fmt.Fprintf(t, "Region\tOrigin\tLength\n")

	for _, name := range names {
		r := Catalogue[name]
		fmt.Fprintf(t, "%s\t%#08x\t%#x\n", r.Name, r.Origin, r.Length)
	}

	_ = t.Flush()

	return buf.String(), nil
}

func sectionsCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	t := tabwriter.NewWriter(&buf, 16, 8, 0, '\t', tabwriter.TabIndent)
	fmt.Fprintf(t, "Section\tStart\tEnd\tSize\tLoad\n")

	for _, s := range Image.Plan.Sections {
		load := "-"

		if !s.Load.Empty() {
			load = fmt.Sprintf("%#08x", s.Load.Start)
		}

		fmt.Fprintf(t, "%s\t%#08x\t%#08x\t%#x\t%s\n",
			s.String(), s.Span.Start, s.Span.End, s.Span.Size(), load)
	}

	_ = t.Flush()

	return buf.String(), nil
}

func markersCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	m := Image.Plan.Markers()

	span := func(name string, s layout.Span) {
		fmt.Fprintf(&buf, "%-24s %#08x - %#08x\n", name, s.Start, s.End)
	}

	span("__vector_ram_start__", m.Vectors)
	span("__fast_text", m.FastText)
	span("__stext", m.Text)
	span("__srodata", m.Rodata)
	span("__sdata", m.Data)
	span("__sbss", m.BSS)
	span("__fast_data", m.FastData)
	span("__fast_bss", m.FastBSS)
	span("__noncacheable_data", m.NonCacheableData)
	span("__noncacheable_bss", m.NonCacheableBSS)
	span("__sheap", m.Heap)
	span("__estack", m.Stack)

	fmt.Fprintf(&buf, "%-24s %#08x\n", "__global_pointer$", m.GlobalPointer)
	fmt.Fprintf(&buf, "%-24s %#08x\n", "_sidata", m.DataLoad)

	return buf.String(), nil
}

func validateCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	violations := layout.Validate(Image.Plan)

	if len(violations) == 0 {
		return "all checks passed", nil
	}

	for _, v := range violations {
		fmt.Fprintf(&buf, "%v\n", v)
	}

	return buf.String(), nil
}
