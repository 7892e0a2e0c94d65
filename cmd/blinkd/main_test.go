package main

import (
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coretalks/ulp.go/pkg/blink"
	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/asm"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

func TestEmbeddedImageCurrent(t *testing.T) {
	src, err := ioutil.ReadFile("ulp/blink.s")
	require.NoError(t, err)
	img, err := asm.Assemble(src)
	require.NoError(t, err)
	out, err := image.Encode(img)
	require.NoError(t, err)
	require.Equal(t, out, blinkBin, "ulp/blink.bin is stale, run go generate")
}

func TestEmbeddedImageRuns(t *testing.T) {
	img, err := image.Decode(blinkBin)
	require.NoError(t, err)
	prog, err := ulp.DecodeText(img.Text)
	require.NoError(t, err)
	require.NoError(t, ulp.Verify(prog, img.RetainedWords()))
	_, ok := img.Symbol(blink.FlagSymbol)
	require.True(t, ok)
}
