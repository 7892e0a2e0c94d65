package websocket

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig/comm"
)

// Registrar implements rig.Registrar accepting operator connections
// over WebSocket. Each accepted connection becomes a session of the
// embedded registrar, so events broadcast to all of them.
type Registrar struct {
	Addr string

	registrar comm.Registrar
	ready     chan struct{}
	ctx       context.Context
}

// NewRegistrar creates a Registrar listening on addr. With an empty
// addr no listener is started and connections are accepted via
// Handler mounted on an external HTTP server.
func NewRegistrar(addr string) *Registrar {
	return &Registrar{Addr: addr, ready: make(chan struct{})}
}

// Handler exposes the WebSocket endpoint.
func (r *Registrar) Handler() http.Handler {
	return websocket.Handler(r.handle)
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable. Sessions are served on the HTTP server
// goroutines and only post into the loop, so the loop context is
// captured here for them.
func (r *Registrar) Run(ctx context.Context) error {
	r.ctx = ctx
	close(r.ready)
	if r.Addr == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	ln, err := net.Listen("tcp", r.Addr)
	if err != nil {
		return err
	}
	glog.Infof("listening on ws://%s", ln.Addr())
	srv := &http.Server{Handler: r.Handler()}
	return fx.RunWithContextCloser(ctx, srv, func() error {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (r *Registrar) handle(conn *websocket.Conn) {
	<-r.ready
	rw := New(conn)
	err := fx.RunWithContextCloser(r.ctx, rw, func() error {
		return r.registrar.Serve(r.ctx, rw)
	})
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("session %s: %v", conn.Request().RemoteAddr, err)
	}
}
