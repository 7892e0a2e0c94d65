package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/coretalks/ulp.go/pkg/framework"
)

func TestPinWatcherPostsToLoop(t *testing.T) {
	s := NewSim()
	w := NewPinWatcher(s)

	received := make(chan PinMsg, 8)
	loop := fx.NewLoop()
	loop.Interval = 10 * time.Millisecond
	w.AddToLoop(loop)
	loop.AddController(fx.PrLvNormal, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			if msg, ok := mc.CurrentMessage().(*PinMsg); ok {
				mc.MessageTaken()
				received <- *msg
			}
		}))
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	require.NoError(t, s.Init(3))
	require.NoError(t, s.OutputEnable(3))
	require.NoError(t, s.SetLevel(3, true))
	require.NoError(t, s.SetLevel(3, false))

	want := []PinMsg{{Pin: 3, High: true}, {Pin: 3, High: false}}
	for _, expected := range want {
		select {
		case msg := <-received:
			require.Equal(t, expected, msg)
		case <-time.After(5 * time.Second):
			t.Fatal("no pin message received")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
}
