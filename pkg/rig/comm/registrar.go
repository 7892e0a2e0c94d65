package comm

import (
	"context"
	"sync"

	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
)

// Registrar implements rig.Registrar over packet transports,
// integrated with the loop. A fixed transport is bound with Init;
// listener transports drive one Serve call per accepted session.
// Commands from every session are posted into the loop, and events
// broadcast to every live session.
type Registrar struct {
	pipe *Pipe

	lock     sync.Mutex
	sessions map[*Pipe]struct{}
}

// Init binds a fixed transport. It may be skipped for registrars
// fed only by Serve sessions.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe = r.newSession(rw)
}

// Serve runs one transport session until the context ends or the
// transport fails. The context must carry the loop control.
func (r *Registrar) Serve(ctx context.Context, rw PacketReadWriter) error {
	p := r.newSession(rw)
	defer func() {
		r.lock.Lock()
		delete(r.sessions, p)
		r.lock.Unlock()
	}()
	return p.Run(ctx)
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.lock.Lock()
	pipes := make([]*Pipe, 0, len(r.sessions))
	for p := range r.sessions {
		pipes = append(pipes, p)
	}
	r.lock.Unlock()
	var errs fx.ErrorList
	for _, p := range pipes {
		errs.Append(p.SendEventMsg(msg))
	}
	return errs.Err()
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	if r.pipe != nil {
		loop.Add(r.pipe)
	}
}

func (r *Registrar) newSession(rw PacketReadWriter) *Pipe {
	p := NewPipe(rw)
	p.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		loopCtl := fx.LoopCtlFrom(ctx)
		switch typed.Kind() {
		case msgs.TypeIDKindCommand:
			loopCtl.PostMessage(&rig.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: p}})
			loopCtl.TriggerNext()
		case msgs.TypeIDKindEvent:
			loopCtl.PostMessage(msg)
			loopCtl.TriggerNext()
		}
		return nil
	})
	r.lock.Lock()
	if r.sessions == nil {
		r.sessions = make(map[*Pipe]struct{})
	}
	r.sessions[p] = struct{}{}
	r.lock.Unlock()
	return p
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.seq)
}

// RegistrarMux registers a rig with multiple Registrars.
type RegistrarMux struct {
	Registrars []rig.Registrar
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.ErrorList
	for _, reg := range r.Registrars {
		errs.Append(reg.SendEvent(ctx, msg))
	}
	return errs.Err()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...rig.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*rig.CommandMsg); ok {
			mctx.MessageTaken()
			cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
