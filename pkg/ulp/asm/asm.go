// Package asm assembles co-processor programs into loadable images.
package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

// Assemble compiles assembler source into a verified image.
//
// Source holds one statement per line, with ';' starting a comment:
//
//	.data <name> <value>...  retained words with initial values
//	.bss <name> [count]      zeroed retained words (count defaults to 1)
//	<mnemonic> [operands]    one instruction
//
// Memory operands are written [name] or [index], without spaces
// inside the brackets. Retained words are laid out .data blocks
// first, then .bss blocks, each exported as a symbol at its first
// word.
func Assemble(src []byte) (*image.Image, error) {
	type stmt struct {
		line   int
		fields []string
	}
	type block struct {
		line  int
		name  string
		inits []uint32
		words int
	}

	var data, bss []block
	var stmts []stmt
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case ".data":
			if len(fields) < 3 {
				return nil, stmtErr(lineNo, ".data takes a name and initial values")
			}
			blk := block{line: lineNo, name: fields[1]}
			for _, f := range fields[2:] {
				v, err := parseNum(f, 32)
				if err != nil {
					return nil, stmtErr(lineNo, "%v", err)
				}
				blk.inits = append(blk.inits, uint32(v))
			}
			blk.words = len(blk.inits)
			data = append(data, blk)
		case ".bss":
			if len(fields) != 2 && len(fields) != 3 {
				return nil, stmtErr(lineNo, ".bss takes a name and an optional count")
			}
			blk := block{line: lineNo, name: fields[1], words: 1}
			if len(fields) == 3 {
				n, err := parseNum(fields[2], 16)
				if err != nil {
					return nil, stmtErr(lineNo, "%v", err)
				}
				if n == 0 {
					return nil, stmtErr(lineNo, "zero count for %q", fields[1])
				}
				blk.words = int(n)
			}
			bss = append(bss, blk)
		default:
			stmts = append(stmts, stmt{line: lineNo, fields: fields})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	img := &image.Image{}
	syms := make(map[string]uint16)
	words := 0
	for _, blk := range append(data, bss...) {
		if _, dup := syms[blk.name]; dup {
			return nil, stmtErr(blk.line, "duplicate symbol %q", blk.name)
		}
		syms[blk.name] = uint16(words)
		img.Symbols = append(img.Symbols, image.Symbol{Name: blk.name, Addr: uint16(words)})
		words += blk.words
	}
	for _, blk := range data {
		img.Data = append(img.Data, blk.inits...)
	}
	for _, blk := range bss {
		img.BssWords += blk.words
	}

	prog := make([]ulp.Instr, 0, len(stmts))
	for _, st := range stmts {
		in, err := parseInstr(st.fields, syms)
		if err != nil {
			return nil, stmtErr(st.line, "%v", err)
		}
		prog = append(prog, in)
	}
	if err := ulp.Verify(prog, words); err != nil {
		return nil, err
	}
	img.Text = ulp.EncodeText(prog)
	return img, nil
}

func parseInstr(fields []string, syms map[string]uint16) (ulp.Instr, error) {
	var in ulp.Instr
	mnemonic, args := fields[0], fields[1:]
	argErr := func(operands string) error {
		return fmt.Errorf("%s takes %s", mnemonic, operands)
	}
	switch mnemonic {
	case "halt":
		if len(args) != 0 {
			return in, argErr("no operands")
		}
		in.Op = ulp.OpHalt
	case "gpio_init", "gpio_out_en":
		in.Op = ulp.OpGPIOInit
		if mnemonic == "gpio_out_en" {
			in.Op = ulp.OpGPIOOutEn
		}
		if len(args) != 1 {
			return in, argErr("a pin")
		}
		pin, err := parseNum(args[0], 8)
		if err != nil {
			return in, err
		}
		in.Arg = uint8(pin)
	case "gpio_set":
		in.Op = ulp.OpGPIOSet
		if len(args) != 2 {
			return in, argErr("a pin and a memory operand")
		}
		pin, err := parseNum(args[0], 8)
		if err != nil {
			return in, err
		}
		in.Arg = uint8(pin)
		if in.Imm, err = parseMem(args[1], syms); err != nil {
			return in, err
		}
	case "toggle", "wake_cnt":
		in.Op = ulp.OpToggle
		if mnemonic == "wake_cnt" {
			in.Op = ulp.OpWakeCnt
		}
		if len(args) != 1 {
			return in, argErr("a memory operand")
		}
		var err error
		if in.Imm, err = parseMem(args[0], syms); err != nil {
			return in, err
		}
	case "sleep":
		in.Op = ulp.OpSleep
		if len(args) != 1 {
			return in, argErr("milliseconds")
		}
		ms, err := parseNum(args[0], 16)
		if err != nil {
			return in, err
		}
		in.Imm = uint16(ms)
	default:
		return in, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	return in, nil
}

func parseMem(s string, syms map[string]uint16) (uint16, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, fmt.Errorf("memory operand %q must be [name] or [index]", s)
	}
	ref := s[1 : len(s)-1]
	if addr, ok := syms[ref]; ok {
		return addr, nil
	}
	n, err := strconv.ParseUint(ref, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("undefined symbol %q", ref)
	}
	return uint16(n), nil
}

func parseNum(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return n, nil
}

func stmtErr(line int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: "+format, append([]interface{}{line}, args...)...)
}
