package ulp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/coretalks/ulp.go/pkg/board"
)

// InstrSize is the encoded size of one instruction in bytes.
const InstrSize = 4

// Opcodes.
const (
	OpHalt uint8 = iota
	OpGPIOInit
	OpGPIOOutEn
	OpGPIOSet
	OpToggle
	OpSleep
	OpWakeCnt
)

// Program errors.
var (
	ErrBadText    = errors.New("text size not a multiple of instruction size")
	ErrEmptyProg  = errors.New("empty program")
	ErrNoHalt     = errors.New("program does not end with halt")
	ErrUnknownOp  = errors.New("unknown opcode")
	ErrBadPin     = errors.New("pin number out of range")
	ErrBadAddress = errors.New("address out of range")
)

// Instr is one decoded instruction: an opcode, a small argument
// (the pin for I/O opcodes) and a 16-bit immediate (a retained
// word index for memory opcodes, milliseconds for sleep).
type Instr struct {
	Op  uint8
	Arg uint8
	Imm uint16
}

// String formats the instruction in assembler syntax.
func (in Instr) String() string {
	switch in.Op {
	case OpHalt:
		return "halt"
	case OpGPIOInit:
		return fmt.Sprintf("gpio_init %d", in.Arg)
	case OpGPIOOutEn:
		return fmt.Sprintf("gpio_out_en %d", in.Arg)
	case OpGPIOSet:
		return fmt.Sprintf("gpio_set %d, [%d]", in.Arg, in.Imm)
	case OpToggle:
		return fmt.Sprintf("toggle [%d]", in.Imm)
	case OpSleep:
		return fmt.Sprintf("sleep %d", in.Imm)
	case OpWakeCnt:
		return fmt.Sprintf("wake_cnt [%d]", in.Imm)
	}
	return fmt.Sprintf("op%d %d, %d", in.Op, in.Arg, in.Imm)
}

// DecodeText decodes a text section into instructions.
func DecodeText(text []byte) ([]Instr, error) {
	if len(text)%InstrSize != 0 {
		return nil, ErrBadText
	}
	prog := make([]Instr, 0, len(text)/InstrSize)
	for i := 0; i < len(text); i += InstrSize {
		prog = append(prog, Instr{
			Op:  text[i],
			Arg: text[i+1],
			Imm: binary.LittleEndian.Uint16(text[i+2:]),
		})
	}
	return prog, nil
}

// EncodeText encodes instructions into a text section.
func EncodeText(prog []Instr) []byte {
	text := make([]byte, 0, len(prog)*InstrSize)
	for _, in := range prog {
		var b [InstrSize]byte
		b[0] = in.Op
		b[1] = in.Arg
		binary.LittleEndian.PutUint16(b[2:], in.Imm)
		text = append(text, b[:]...)
	}
	return text
}

// Verify statically checks a program against a retained memory of
// retainedWords words. Every opcode must be known, every memory
// operand in range, every pin drivable, and the last instruction a
// halt. A verified program cannot fault at run time.
func Verify(prog []Instr, retainedWords int) error {
	if len(prog) == 0 {
		return ErrEmptyProg
	}
	if prog[len(prog)-1].Op != OpHalt {
		return ErrNoHalt
	}
	for pc, in := range prog {
		switch in.Op {
		case OpHalt, OpSleep:
		case OpGPIOInit, OpGPIOOutEn:
			if int(in.Arg) >= board.NumPins {
				return fmt.Errorf("instruction %d: %v", pc, ErrBadPin)
			}
		case OpGPIOSet:
			if int(in.Arg) >= board.NumPins {
				return fmt.Errorf("instruction %d: %v", pc, ErrBadPin)
			}
			if int(in.Imm) >= retainedWords {
				return fmt.Errorf("instruction %d: %v", pc, ErrBadAddress)
			}
		case OpToggle, OpWakeCnt:
			if int(in.Imm) >= retainedWords {
				return fmt.Errorf("instruction %d: %v", pc, ErrBadAddress)
			}
		default:
			return fmt.Errorf("instruction %d: %v 0x%02x", pc, ErrUnknownOp, in.Op)
		}
	}
	return nil
}
