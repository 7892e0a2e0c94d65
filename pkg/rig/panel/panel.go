// Package panel renders rig state as JSON lines for console panels.
package panel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coretalks/ulp.go/pkg/blink"
	fx "github.com/coretalks/ulp.go/pkg/framework"
)

// Message is one panel update line.
type Message struct {
	LED    string `json:"led"`
	Cycles uint64 `json:"cycles"`
	Core   string `json:"core"`
	Wakes  uint64 `json:"wakes"`
	Flag   uint32 `json:"flag"`
}

// Adapter buffers state changes and prints the latest one as a JSON
// line once per iteration.
type Adapter struct {
	Out io.Writer

	latest blink.State
	dirty  bool
}

// NewAdapter creates the adapter writing to out, stdout when nil.
func NewAdapter(out io.Writer) *Adapter {
	if out == nil {
		out = os.Stdout
	}
	return &Adapter{Out: out}
}

// Subscribe is a helper to subscribe state changes.
func (a *Adapter) Subscribe(sub blink.StateChangeSubscriber) *Adapter {
	sub.SubscribeStateChange(a)
	return a
}

// StateChanged implements blink.StateChangeListener.
func (a *Adapter) StateChanged(cc fx.ControlContext, state blink.State) {
	a.latest, a.dirty = state, true
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvReport, fx.ControlFunc(a.ReportChanges))
}

// ReportChanges is a controller to report the buffered update.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	if !a.dirty {
		return nil
	}
	a.dirty = false
	encoded, err := json.Marshal(&Message{
		LED:    a.latest.Color.String(),
		Cycles: a.latest.Cycles,
		Core:   a.latest.Core.String(),
		Wakes:  a.latest.Wakes,
		Flag:   a.latest.Flag,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, string(encoded))
	return nil
}
