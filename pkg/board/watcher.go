package board

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/coretalks/ulp.go/pkg/framework"
)

// PinMsg reports one output level write observed on the board.
type PinMsg struct {
	Pin  int
	High bool
}

// NewMessage implements Message.
func (m *PinMsg) NewMessage() fx.Message { return &PinMsg{} }

// PinWatcher forwards pin changes into a control loop as PinMsg.
// Changes arrive on the writer's goroutine and are buffered, so a
// stalled loop never blocks the board.
type PinWatcher struct {
	ch chan PinMsg
}

// NewPinWatcher creates a PinWatcher subscribed to sub.
func NewPinWatcher(sub PinChangeSubscriber) *PinWatcher {
	w := &PinWatcher{ch: make(chan PinMsg, 64)}
	sub.SubscribePinChange(w)
	return w
}

// Name implements Named.
func (w *PinWatcher) Name() string { return "pin-watcher" }

// PinChanged implements PinChangeListener.
func (w *PinWatcher) PinChanged(pin int, high bool) {
	select {
	case w.ch <- PinMsg{Pin: pin, High: high}:
	default:
		glog.Warningf("pin watcher full, dropped pin%d change", pin)
	}
}

// Run implements Runnable. It must run inside a loop.
func (w *PinWatcher) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-w.ch:
			ctl.PostMessage(&msg)
			ctl.TriggerNext()
		}
	}
}

// AddToLoop implements LoopAdder.
func (w *PinWatcher) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(w)
}
