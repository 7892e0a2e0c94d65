package comm

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/comm/stream"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
)

// startLoop runs a loop until the returned stop func is called.
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

func awaitResult(t *testing.T, f rig.CommandFuture) rig.Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("command result not received")
		return rig.Result{}
	}
}

func TestCommandReplyOverPipes(t *testing.T) {
	rigEnd, opEnd := net.Pipe()

	var registrar Registrar
	registrar.Init(stream.New(rigEnd))
	rigLoop := fx.NewLoop().Add(&registrar, &UnsupportedCommands{})
	rigLoop.AddController(fx.PrLvControl, statusHandler())
	stopRig := startLoop(t, rigLoop)
	defer stopRig()

	var conn Conn
	conn.Init(stream.New(opEnd))
	events := make(chan *msgs.ColorChange, 8)
	opLoop := fx.NewLoop().Add(&conn)
	opLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if ev, ok := mctx.CurrentMessage().(*msgs.ColorChange); ok {
				mctx.MessageTaken()
				events <- ev
			}
		}))
		return nil
	}))
	stopOp := startLoop(t, opLoop)
	defer stopOp()

	// Close the conns first so blocked pipe reads unwind before the
	// loops are awaited.
	defer rigEnd.Close()
	defer opEnd.Close()

	res := awaitResult(t, conn.DoCommand(&msgs.RigStatusQuery{}))
	require.NoError(t, res.Err)
	status, ok := res.Msg.(*msgs.RigStatus)
	require.True(t, ok)
	require.Equal(t, "running", status.State)
	require.Equal(t, uint64(7), status.WakeCount)

	// Commands nobody handles are answered by UnsupportedCommands.
	res = awaitResult(t, conn.DoCommand(&msgs.PeekQuery{Symbol: "led_state"}))
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "unsupported command")

	// Events broadcast from the rig reach the operator loop.
	require.NoError(t, registrar.SendEvent(context.Background(), &msgs.ColorChange{Color: "RED"}))
	select {
	case ev := <-events:
		require.Equal(t, "RED", ev.Color)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}

func TestCommandExpiration(t *testing.T) {
	rigEnd, opEnd := net.Pipe()

	// The rig end never replies.
	var conn Conn
	conn.Init(stream.New(opEnd))
	conn.Expiration = 50 * time.Millisecond
	opLoop := fx.NewLoop().Add(&conn)
	stopOp := startLoop(t, opLoop)
	defer stopOp()
	defer rigEnd.Close()
	defer opEnd.Close()

	go func() {
		// Drain the command so the pipe write does not block.
		buf := make([]byte, 256)
		for {
			if _, err := rigEnd.Read(buf); err != nil {
				return
			}
		}
	}()

	res := awaitResult(t, conn.DoCommand(&msgs.RigStatusQuery{}))
	require.Equal(t, context.DeadlineExceeded, res.Err)
}
