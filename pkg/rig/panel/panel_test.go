package panel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coretalks/ulp.go/pkg/blink"
	"github.com/coretalks/ulp.go/pkg/board/neopixel"
	"github.com/coretalks/ulp.go/pkg/ulp"
)

func TestAdapterReportsLatest(t *testing.T) {
	var out bytes.Buffer
	a := NewAdapter(&out)

	require.NoError(t, a.ReportChanges(nil))
	require.Empty(t, out.String())

	a.StateChanged(nil, blink.State{Color: neopixel.Red, Core: ulp.StateRunning, Wakes: 1, Flag: 1})
	a.StateChanged(nil, blink.State{Color: neopixel.Green, Cycles: 2, Core: ulp.StateRunning, Wakes: 3})
	require.NoError(t, a.ReportChanges(nil))
	require.Equal(t, `{"led":"GREEN","cycles":2,"core":"running","wakes":3,"flag":0}`+"\n", out.String())

	out.Reset()
	require.NoError(t, a.ReportChanges(nil))
	require.Empty(t, out.String())
}

func TestAdapterSubscribe(t *testing.T) {
	var out bytes.Buffer
	var caster blink.StateChangeCaster
	a := NewAdapter(&out).Subscribe(&caster)
	caster.StateChanged(nil, blink.State{Color: neopixel.Blue})
	require.NoError(t, a.ReportChanges(nil))
	require.Contains(t, out.String(), `"led":"BLUE"`)
}
