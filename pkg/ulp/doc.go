// Package ulp emulates the low-power co-processor of the board.
package ulp

// The co-processor owns a small retained memory of 32-bit words and
// runs a straight-line program each time its wakeup source fires. A
// program run executes every instruction in order until a halt, then
// the core powers down until the next wake. Retained memory survives
// across runs and is readable by the host at any time, which is how
// the program publishes state.
//
// Instructions are 4 bytes: opcode, one register-free argument, and a
// 16-bit little-endian immediate. Memory operands address retained
// words by index. The instruction set is deliberately tiny: pin setup
// and output, word toggle, wake counting, and a busy sleep.
//
// Programs arrive packaged as an image (package ulp/image). Load
// statically verifies the program against the image's retained
// memory layout, so a verified program cannot fault at run time.
