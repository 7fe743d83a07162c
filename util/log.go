// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"bytes"
	"os"

	"golang.org/x/term"
)

var primaryOutput bytes.Buffer
var secondaryOutput bytes.Buffer

const outputLimit = 1024
const flushChr = 0x0a // \n

// BufferedStdoutLog buffers per-hart console bytes and flushes them on
// newline, so output from concurrently booting harts does not interleave
// mid-line.
func BufferedStdoutLog(c byte, primary bool) {
	var buf *bytes.Buffer

	if primary {
		buf = &primaryOutput
	} else {
		buf = &secondaryOutput
	}

	buf.WriteByte(c)

	if c == flushChr || buf.Len() > outputLimit {
		os.Stdout.Write(buf.Bytes())
		buf.Reset()
	}
}

// BufferedTermLog is BufferedStdoutLog for terminal sessions, coloring
// primary hart output green and secondary output red.
func BufferedTermLog(c byte, primary bool, t *term.Terminal) {
	var buf *bytes.Buffer
	var color []byte

	if primary {
		buf = &primaryOutput
		color = t.Escape.Green
	} else {
		buf = &secondaryOutput
		color = t.Escape.Red
	}

	buf.WriteByte(c)

	if c == flushChr || buf.Len() > outputLimit {
		t.Write(color)
		t.Write(buf.Bytes())
		t.Write(t.Escape.Reset)

		buf.Reset()
	}
}
