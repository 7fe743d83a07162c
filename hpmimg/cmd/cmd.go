// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/hpmicro-rs/hpm-riscv-rt/image"
	"github.com/hpmicro-rs/hpm-riscv-rt/mem"
)

var Banner string

// Image is the firmware image the console operates on.
var Image *image.Image

// Catalogue is the memory region catalogue the image was placed against.
var Catalogue mem.Catalogue

type CmdFn func(term *term.Terminal, arg []string) (res string, err error)

type Cmd struct {
	Name    string
	Args    int
	Pattern *regexp.Regexp
	Syntax  string
	Help    string
	Fn      CmdFn
}

var cmds = make(map[string]*Cmd)
var mutex sync.Mutex

func Add(cmd Cmd) {
	mutex.Lock()
	defer mutex.Unlock()

	cmds[cmd.Name] = &cmd
}

func init() {
	Add(Cmd{
		Name: "help",
		Help: "this help",
		Fn: func(term *term.Terminal, _ []string) (string, error) {
			return Help(term), nil
		},
	})

	Add(Cmd{
		Name: "exit",
		Help: "close session",
		Fn:   exitCmd,
	})

	Add(Cmd{
		Name: "quit",
		Help: "close session",
		Fn:   exitCmd,
	})
}

func exitCmd(_ *term.Terminal, _ []string) (string, error) {
	return "logout", io.EOF
}

func HelpText() string {
	var help bytes.Buffer
	var names []string

	t := tabwriter.NewWriter(&help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(t, "%s\t%s\t # %s\n", cmds[name].Name, cmds[name].Syntax, cmds[name].Help)
	}

	_ = t.Flush()

	return help.String()
}

func Help(term *term.Terminal) string {
	return string(term.Escape.Cyan) + HelpText() + string(term.Escape.Reset)
}

func Handle(term *term.Terminal, line string) (err error) {
	var match *Cmd
	var arg []string
	var res string

	line = strings.TrimSpace(line)

	if len(line) == 0 {
		return
	}

	name := strings.Split(line, " ")[0]

	mutex.Lock()
	cmd, ok := cmds[name]
	mutex.Unlock()

	if !ok {
		return fmt.Errorf("unknown command, type `help`")
	}

	if cmd.Pattern != nil {
		m := cmd.Pattern.FindStringSubmatch(line)

		if m == nil || len(m) != cmd.Args+1 {
			return fmt.Errorf("syntax error, use `%s %s`", cmd.Name, cmd.Syntax)
		}

		match = cmd
		arg = m[1:]
	} else {
		match = cmd
		arg = strings.Fields(line)[1:]
	}

	res, err = match.Fn(term, arg)

	if len(res) > 0 {
		fmt.Fprintln(term, res)
	}

	return
}

// SerialConsole presents the command interface on the process standard
// input and output.
func SerialConsole() {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)

	if err == nil {
		defer func() {
			_ = term.Restore(fd, state)
		}()
	}

	t := term.NewTerminal(stdio{}, "")
	t.SetPrompt(string(t.Escape.Red) + "> " + string(t.Escape.Reset))

	fmt.Fprintf(t, "%s\n\n", Banner)
	fmt.Fprintf(t, "%s\n", Help(t))

	for {
		line, err := t.ReadLine()

		if err != nil {
			break
		}

		if err = Handle(t, line); err != nil {
			if err == io.EOF {
				break
			}

			fmt.Fprintf(t, "command error, %v\n", err)
		}
	}
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdio) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}
