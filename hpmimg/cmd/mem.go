// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/term"

	"github.com/hpmicro-rs/hpm-riscv-rt/layout"
)

func init() {
	Add(Cmd{
		Name:    "peek",
		Args:    2,
		Pattern: regexp.MustCompile(`^peek ([[:xdigit:]]+) (\d+)$`),
		Syntax:  "<hex addr> <size>",
		Help:    "read image bytes at flash address",
		Fn:      peekCmd,
	})

	Add(Cmd{
		Name:    "dump",
		Args:    1,
		Pattern: regexp.MustCompile(`^dump (\S+)$`),
		Syntax:  "<section>",
		Help:    "hex dump of a placed section",
		Fn:      dumpCmd,
	})
}

func peekCmd(_ *term.Terminal, arg []string) (res string, err error) {
	addr, err := strconv.ParseUint(arg[0], 16, 32)

	if err != nil {
		return "", fmt.Errorf("invalid address, %v", err)
	}

	size, err := strconv.ParseUint(arg[1], 10, 32)

	if err != nil {
		return "", fmt.Errorf("invalid size, %v", err)
	}

	buf, err := Image.Bytes(layout.Span{
		Start: uint32(addr),
		End:   uint32(addr) + uint32(size),
	})

	if err != nil {
		return
	}

	return hex.Dump(buf), nil
}

func dumpCmd(_ *term.Terminal, arg []string) (res string, err error) {
	s := Image.Plan.Section(arg[0])

	if s == nil {
		return "", fmt.Errorf("no section %q in plan", arg[0])
	}

	span := s.Span

	if !s.Load.Empty() {
		span = s.Load
	}

	if span.Empty() {
		return "empty section", nil
	}

	buf, err := Image.Bytes(span)

	if err != nil {
		return
	}

	return hex.Dump(buf), nil
}
