package asm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

const blinkSource = `
; Toggle a retained flag on every timer wake and mirror it to the pin.

.data led_state 0

gpio_init 3
gpio_out_en 3
toggle [led_state]
gpio_set 3, [led_state]
sleep 1000
halt
`

func TestAssembleBlink(t *testing.T) {
	img, err := Assemble([]byte(blinkSource))
	require.NoError(t, err)

	require.Equal(t, []byte{
		0x01, 0x03, 0x00, 0x00, // gpio_init 3
		0x02, 0x03, 0x00, 0x00, // gpio_out_en 3
		0x04, 0x00, 0x00, 0x00, // toggle [0]
		0x03, 0x03, 0x00, 0x00, // gpio_set 3, [0]
		0x05, 0x00, 0xe8, 0x03, // sleep 1000
		0x00, 0x00, 0x00, 0x00, // halt
	}, img.Text)
	require.Equal(t, []uint32{0}, img.Data)
	require.Equal(t, 0, img.BssWords)
	require.Equal(t, []image.Symbol{{Name: "led_state", Addr: 0}}, img.Symbols)

	// The assembled image survives the container codec.
	encoded, err := image.Encode(img)
	require.NoError(t, err)
	decoded, err := image.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, img.Text, decoded.Text)
}

func TestAssembleLayout(t *testing.T) {
	img, err := Assemble([]byte(`
.data a 7
.bss  b
.data c 0x10 0x11 ; a block of two words, symbol at the first
.bss  d 3

wake_cnt [b]
toggle [1]
gpio_set 2, [d]
halt
`))
	require.NoError(t, err)

	// Data blocks come first, bss blocks after.
	require.Equal(t, []uint32{7, 0x10, 0x11}, img.Data)
	require.Equal(t, 4, img.BssWords)
	require.Equal(t, []image.Symbol{
		{Name: "a", Addr: 0},
		{Name: "c", Addr: 1},
		{Name: "b", Addr: 3},
		{Name: "d", Addr: 4},
	}, img.Symbols)

	prog, err := ulp.DecodeText(img.Text)
	require.NoError(t, err)
	require.Equal(t, uint16(3), prog[0].Imm, "wake_cnt [b] resolves to the first bss word")
	require.Equal(t, uint16(1), prog[1].Imm)
	require.Equal(t, uint16(4), prog[2].Imm, "gpio_set [d] resolves to the block start")
}

func TestAssembleErrors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		errText string
	}{
		{"unknown mnemonic", "blink 3\nhalt\n", "unknown mnemonic"},
		{"duplicate symbol", ".data x 0\n.bss x\nhalt\n", "duplicate symbol"},
		{"undefined symbol", "toggle [missing]\nhalt\n", "undefined symbol"},
		{"bare memory operand", "toggle flag\nhalt\n", "must be [name] or [index]"},
		{"missing operand", ".data flag 0\ngpio_set 3\nhalt\n", "takes a pin and a memory operand"},
		{"bad number", "sleep soon\nhalt\n", "bad number"},
		{"bad data value", ".data x ten\nhalt\n", "bad number"},
		{"data needs value", ".data x\nhalt\n", ".data takes a name and initial values"},
		{"zero bss count", ".bss x 0\nhalt\n", "zero count"},
		{"bad bss count", ".bss x many\nhalt\n", "bad number"},
		{"empty program", "; nothing\n", "empty program"},
		{"missing halt", ".data x 0\ntoggle [x]\n", "does not end with halt"},
		{"operand out of range", ".data x 0\ntoggle [9]\nhalt\n", "address out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble([]byte(tc.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errText)
		})
	}
}
