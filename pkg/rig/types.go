package rig

import (
	"context"

	fx "github.com/coretalks/ulp.go/pkg/framework"
)

// Registrar registers a rig (device controller) to a registry.
// It integrates with the framework and helps a controller process
// command messages.
type Registrar interface {
	// SendEvent sends an event to connected operators.
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Ref is a reference to a rig.
type Ref struct {
	// Type is the rig type (device type).
	Type string
	// ID is the unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates Ref is valid.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta provides metadata for a rig.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info provides information of a rig.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Connector is used by operator tools to connect to a rig.
type Connector interface {
	// Discover enumerates registered rigs.
	Discover(context.Context) ([]Info, error)
	// Connect connects to the specified rig.
	Connect(context.Context, Ref) (Conn, error)
}

// Conn is the connection to a rig.
type Conn interface {
	// DoCommand executes a command.
	DoCommand(fx.Message) CommandFuture
}

// Result represents the result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of a sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}
