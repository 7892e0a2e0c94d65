package asm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpListing(t *testing.T) {
	img, err := Assemble([]byte(blinkSource))
	require.NoError(t, err)

	var w bytes.Buffer
	require.NoError(t, Dump(&w, img))
	require.Equal(t,
		"text:\n"+
			"   0  gpio_init 3\n"+
			"   1  gpio_out_en 3\n"+
			"   2  toggle [0]\n"+
			"   3  gpio_set 3, [0]\n"+
			"   4  sleep 1000\n"+
			"   5  halt\n"+
			"mem:\n"+
			"   0  0x00000000  led_state\n",
		w.String())
}

func TestDumpBssWords(t *testing.T) {
	img, err := Assemble([]byte(".data a 7\n.bss b 2\nhalt\n"))
	require.NoError(t, err)

	var w bytes.Buffer
	require.NoError(t, Dump(&w, img))
	require.Equal(t,
		"text:\n"+
			"   0  halt\n"+
			"mem:\n"+
			"   0  0x00000007  a\n"+
			"   1  -  b\n"+
			"   2  -\n",
		w.String())
}
