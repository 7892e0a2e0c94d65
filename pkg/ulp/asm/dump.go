package asm

import (
	"fmt"
	"io"

	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

// Dump writes a human readable listing of a decoded image.
func Dump(w io.Writer, img *image.Image) error {
	prog, err := ulp.DecodeText(img.Text)
	if err != nil {
		return err
	}
	names := make(map[uint16]string, len(img.Symbols))
	for _, sym := range img.Symbols {
		names[sym.Addr] = sym.Name
	}
	fmt.Fprintln(w, "text:")
	for pc, in := range prog {
		fmt.Fprintf(w, "%4d  %v\n", pc, in)
	}
	words := img.RetainedWords()
	if words == 0 {
		return nil
	}
	fmt.Fprintln(w, "mem:")
	for n := 0; n < words; n++ {
		// words beyond the initialized data belong to bss
		value := "-"
		if n < len(img.Data) {
			value = fmt.Sprintf("0x%08x", img.Data[n])
		}
		line := fmt.Sprintf("%4d  %s", n, value)
		if name := names[uint16(n)]; name != "" {
			line += "  " + name
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
