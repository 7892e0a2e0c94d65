package websocket

import (
	"context"
	"errors"

	"golang.org/x/net/websocket"

	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/comm"
)

// ErrNoDiscovery is returned by Discover: a WebSocket endpoint serves
// exactly one rig, there is nothing to enumerate.
var ErrNoDiscovery = errors.New("discovery not supported over websocket")

// Dial connects to a WebSocket endpoint.
func Dial(wsURL string) (*ReadWriter, error) {
	conn, err := websocket.Dial(wsURL, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Connector implements rig.Connector over a direct WebSocket URL.
// The ref passed to Connect is ignored, the endpoint already
// identifies the rig.
type Connector struct {
	URL string
}

// NewConnector creates a Connector.
func NewConnector(wsURL string) *Connector {
	return &Connector{URL: wsURL}
}

// Discover implements Connector.
func (c *Connector) Discover(ctx context.Context) ([]rig.Info, error) {
	return nil, ErrNoDiscovery
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref rig.Ref) (rig.Conn, error) {
	rw, err := Dial(c.URL)
	if err != nil {
		return nil, err
	}
	conn := &comm.Conn{}
	conn.Init(rw)
	return conn, nil
}
