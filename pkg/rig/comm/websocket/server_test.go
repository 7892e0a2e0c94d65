package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/comm"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
)

func startLoop(t *testing.T, loop *fx.Loop) (stop func()) {
	loop.Interval = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("loop did not stop")
		}
	}
}

func statusHandler() fx.Controller {
	return fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			cmdMsg, ok := mctx.CurrentMessage().(*rig.CommandMsg)
			if !ok {
				return
			}
			if _, ok = cmdMsg.Command.Msg().(*msgs.RigStatusQuery); ok {
				mctx.MessageTaken()
				cmdMsg.Command.Done(&msgs.RigStatus{State: "running", WakeCount: 7})
			}
		}))
		return nil
	})
}

func TestServerSession(t *testing.T) {
	reg := NewRegistrar("")
	rigLoop := fx.NewLoop().Add(reg, &comm.UnsupportedCommands{})
	rigLoop.AddController(fx.PrLvControl, statusHandler())

	ts := httptest.NewServer(reg.Handler())
	defer ts.Close()

	connector := NewConnector("ws" + strings.TrimPrefix(ts.URL, "http"))
	_, err := connector.Discover(context.Background())
	require.Equal(t, ErrNoDiscovery, err)

	c, err := connector.Connect(context.Background(), rig.Ref{Type: "ulp-blink", ID: "1"})
	require.NoError(t, err)
	conn := c.(*comm.Conn)

	events := make(chan *msgs.PinChange, 8)
	opLoop := fx.NewLoop().Add(conn)
	opLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if ev, ok := mctx.CurrentMessage().(*msgs.PinChange); ok {
				mctx.MessageTaken()
				events <- ev
			}
		}))
		return nil
	}))
	stopOp := startLoop(t, opLoop)
	defer stopOp()

	// Stopped last in declaration order so it runs first: ending the
	// rig loop closes accepted session conns, which unblocks the
	// operator pipe before the operator loop is awaited.
	stopRig := startLoop(t, rigLoop)
	defer stopRig()

	res := awaitResult(t, conn.DoCommand(&msgs.RigStatusQuery{}))
	require.NoError(t, res.Err)
	status, ok := res.Msg.(*msgs.RigStatus)
	require.True(t, ok, "unexpected reply %T", res.Msg)
	require.Equal(t, "running", status.State)
	require.Equal(t, uint64(7), status.WakeCount)

	require.NoError(t, reg.SendEvent(context.Background(), &msgs.PinChange{Pin: 3, High: true}))
	select {
	case ev := <-events:
		require.Equal(t, uint32(3), ev.Pin)
		require.True(t, ev.High)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}

func awaitResult(t *testing.T, f rig.CommandFuture) rig.Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("command result not received")
		return rig.Result{}
	}
}
