// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Catalogue descriptions follow the memory.x convention of the reference
// toolchain: a MEMORY block naming physical regions, followed by
// REGION_ALIAS statements binding logical names to them.
//
//	MEMORY
//	{
//	    XPI0 : ORIGIN = 0x80000000, LENGTH = 1M
//	    ILM  : ORIGIN = 0x00000000, LENGTH = 128K
//	}
//	REGION_ALIAS("REGION_TEXT", XPI0);
var (
	regionPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*ORIGIN\s*=\s*(0[xX][0-9a-fA-F]+|\d+)\s*,\s*LENGTH\s*=\s*(0[xX][0-9a-fA-F]+|\d+)([KM]?)$`)
	aliasPattern  = regexp.MustCompile(`^REGION_ALIAS\s*\(\s*"([A-Za-z0-9_]+)"\s*,\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)\s*;?$`)
	commentStrip  = regexp.MustCompile(`/\*.*?\*/`)
)

func parseSize(val string, suffix string) (uint32, error) {
	n, err := strconv.ParseUint(val, 0, 32)

	if err != nil {
		return 0, err
	}

	switch suffix {
	case "K":
		n <<= 10
	case "M":
		n <<= 20
	}

	if n > 0xffffffff {
		return 0, fmt.Errorf("value %s%s exceeds 32 bits", val, suffix)
	}

	return uint32(n), nil
}

// Parse reads a memory region description and returns the resulting
// catalogue. Logical names without an alias can be defined directly as
// regions, aliases must refer to a previously defined region.
func Parse(r io.Reader) (Catalogue, error) {
	cat := make(Catalogue)
	phys := make(map[string]Region)

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line += 1
		s := commentStrip.ReplaceAllString(scanner.Text(), "")
		s = strings.TrimSpace(s)

		switch {
		case s == "", s == "MEMORY", s == "{", s == "}":
			continue
		case regionPattern.MatchString(s):
			m := regionPattern.FindStringSubmatch(s)

			origin, err := strconv.ParseUint(m[2], 0, 32)

			if err != nil {
				return nil, fmt.Errorf("line %d: invalid origin, %v", line, err)
			}

			length, err := parseSize(m[3], m[4])

			if err != nil {
				return nil, fmt.Errorf("line %d: invalid length, %v", line, err)
			}

			region := Region{Name: m[1], Origin: uint32(origin), Length: length}
			phys[m[1]] = region

			if strings.HasPrefix(m[1], "REGION_") || m[1] == RegionAHBSRAM {
				cat[m[1]] = region
			}
		case aliasPattern.MatchString(s):
			m := aliasPattern.FindStringSubmatch(s)

			region, ok := phys[m[2]]

			if !ok {
				return nil, fmt.Errorf("line %d: alias %s refers to undefined region %s", line, m[1], m[2])
			}

			cat[m[1]] = region
		default:
			return nil, fmt.Errorf("line %d: cannot parse %q", line, s)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cat, nil
}

// ParseString is a convenience wrapper for Parse.
func ParseString(s string) (Catalogue, error) {
	return Parse(strings.NewReader(s))
}
