// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/hpmicro-rs/hpm-riscv-rt/boot"
)

func init() {
	Add(Cmd{
		Name: "vectors",
		Help: "external interrupt vector table",
		Fn:   vectorsCmd,
	})

	Add(Cmd{
		Name: "pma",
		Help: "non-cacheable PMA window configuration",
		Fn:   pmaCmd,
	})
}

func vectorsCmd(_ *term.Terminal, _ []string) (res string, err error) {
	var buf bytes.Buffer

	tbl := Image.Table

	fmt.Fprintf(&buf, "base %#08x (%d entries)\n\n", tbl.Base, len(tbl.Entries))

	t := tabwriter.NewWriter(&buf, 8, 8, 0, '\t', tabwriter.TabIndent)
	fmt.Fprintf(t, "Slot\tHandler\n")

	for i, addr := range tbl.Entries {
		name := fmt.Sprintf("irq%d", i-1)

		if i == 0 {
			name = "core local"
		}

		fmt.Fprintf(t, "%d\t%#08x\t%s\n", i, addr, name)
	}

	_ = t.Flush()

	return buf.String(), nil
}

func pmaCmd(_ *term.Terminal, _ []string) (res string, err error) {
	m := Image.Plan.Markers()

	e, ok, err := boot.NonCacheableWindow(m.NonCacheable())

	if err != nil {
		return
	}

	if !ok {
		return "no non-cacheable window", nil
	}

	return fmt.Sprintf("pma%d addr:%#08x cfg:%#08x window:%#08x-%#08x",
		e.Index, e.Addr, e.Cfg, m.NonCacheable().Start, m.NonCacheable().End), nil
}
