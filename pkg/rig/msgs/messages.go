package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/coretalks/ulp.go/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing a command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// RigStatusQuery queries the rig status.
type RigStatusQuery struct {
}

// NewMessage implements Message.
func (m *RigStatusQuery) NewMessage() fx.Message { return &RigStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *RigStatusQuery) TypeID() uint32 { return RigStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *RigStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *RigStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RigStatusQuery) Reset() { *m = RigStatusQuery{} }

// String implements proto.Message.
func (m *RigStatusQuery) String() string { return proto.CompactTextString(m) }

// RigStatus is the response for RigStatusQuery.
type RigStatus struct {
	State     string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	WakeCount uint64 `protobuf:"varint,2,opt,name=wake_count,json=wakeCount,proto3" json:"wake_count,omitempty"`
	Color     string `protobuf:"bytes,3,opt,name=color,proto3" json:"color,omitempty"`
	Cycles    uint64 `protobuf:"varint,4,opt,name=cycles,proto3" json:"cycles,omitempty"`
	Flag      uint32 `protobuf:"varint,5,opt,name=flag,proto3" json:"flag,omitempty"`
}

// NewMessage implements Message.
func (m *RigStatus) NewMessage() fx.Message { return &RigStatus{} }

// TypeID implements SerializableMessage.
func (m *RigStatus) TypeID() uint32 { return RigStatusTypeID }

// Serializable implements SerializableMessage.
func (m *RigStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *RigStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RigStatus) Reset() { *m = RigStatus{} }

// String implements proto.Message.
func (m *RigStatus) String() string { return proto.CompactTextString(m) }

// PeekQuery reads a retained memory word of the co-processor,
// by symbol when Symbol is set, by word index otherwise.
type PeekQuery struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Addr   uint32 `protobuf:"varint,2,opt,name=addr,proto3" json:"addr,omitempty"`
}

// NewMessage implements Message.
func (m *PeekQuery) NewMessage() fx.Message { return &PeekQuery{} }

// TypeID implements SerializableMessage.
func (m *PeekQuery) TypeID() uint32 { return PeekQueryTypeID }

// Serializable implements SerializableMessage.
func (m *PeekQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PeekQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PeekQuery) Reset() { *m = PeekQuery{} }

// String implements proto.Message.
func (m *PeekQuery) String() string { return proto.CompactTextString(m) }

// PeekValue is the response for PeekQuery.
type PeekValue struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Addr   uint32 `protobuf:"varint,2,opt,name=addr,proto3" json:"addr,omitempty"`
	Value  uint32 `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *PeekValue) NewMessage() fx.Message { return &PeekValue{} }

// TypeID implements SerializableMessage.
func (m *PeekValue) TypeID() uint32 { return PeekValueTypeID }

// Serializable implements SerializableMessage.
func (m *PeekValue) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PeekValue) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PeekValue) Reset() { *m = PeekValue{} }

// String implements proto.Message.
func (m *PeekValue) String() string { return proto.CompactTextString(m) }

// ColorChange is an Event message reporting the shown LED color.
type ColorChange struct {
	Pixel uint32 `protobuf:"varint,1,opt,name=pixel,proto3" json:"pixel,omitempty"`
	Color string `protobuf:"bytes,2,opt,name=color,proto3" json:"color,omitempty"`
}

// NewMessage implements Message.
func (m *ColorChange) NewMessage() fx.Message { return &ColorChange{} }

// TypeID implements SerializableMessage.
func (m *ColorChange) TypeID() uint32 { return ColorChangeTypeID }

// Serializable implements SerializableMessage.
func (m *ColorChange) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ColorChange) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ColorChange) Reset() { *m = ColorChange{} }

// String implements proto.Message.
func (m *ColorChange) String() string { return proto.CompactTextString(m) }

// PinChange is an Event message reporting an output pin level write.
type PinChange struct {
	Pin  uint32 `protobuf:"varint,1,opt,name=pin,proto3" json:"pin,omitempty"`
	High bool   `protobuf:"varint,2,opt,name=high,proto3" json:"high,omitempty"`
}

// NewMessage implements Message.
func (m *PinChange) NewMessage() fx.Message { return &PinChange{} }

// TypeID implements SerializableMessage.
func (m *PinChange) TypeID() uint32 { return PinChangeTypeID }

// Serializable implements SerializableMessage.
func (m *PinChange) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PinChange) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PinChange) Reset() { *m = PinChange{} }

// String implements proto.Message.
func (m *PinChange) String() string { return proto.CompactTextString(m) }

// CoreState is an Event message reporting the co-processor state.
type CoreState struct {
	State     string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	WakeCount uint64 `protobuf:"varint,2,opt,name=wake_count,json=wakeCount,proto3" json:"wake_count,omitempty"`
}

// NewMessage implements Message.
func (m *CoreState) NewMessage() fx.Message { return &CoreState{} }

// TypeID implements SerializableMessage.
func (m *CoreState) TypeID() uint32 { return CoreStateTypeID }

// Serializable implements SerializableMessage.
func (m *CoreState) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CoreState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CoreState) Reset() { *m = CoreState{} }

// String implements proto.Message.
func (m *CoreState) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupRig     uint32 = 0x00020000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID     uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	RigStatusQueryTypeID uint32 = GroupRig | 0x0000
	RigStatusTypeID      uint32 = RigStatusQueryTypeID | TypeIDMaskReply
	PeekQueryTypeID      uint32 = GroupRig | 0x0001
	PeekValueTypeID      uint32 = PeekQueryTypeID | TypeIDMaskReply
	ColorChangeTypeID    uint32 = GroupRig | TypeIDKindEvent | 0x0000
	PinChangeTypeID      uint32 = GroupRig | TypeIDKindEvent | 0x0001
	CoreStateTypeID      uint32 = GroupRig | TypeIDKindEvent | 0x0002
)

// MessageTypes are predefined mappings of type ID to messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:      (*CommandOK)(nil),
	CommandErrTypeID:     (*CommandErr)(nil),
	RigStatusQueryTypeID: (*RigStatusQuery)(nil),
	RigStatusTypeID:      (*RigStatus)(nil),
	PeekQueryTypeID:      (*PeekQuery)(nil),
	PeekValueTypeID:      (*PeekValue)(nil),
	ColorChangeTypeID:    (*ColorChange)(nil),
	PinChangeTypeID:      (*PinChange)(nil),
	CoreStateTypeID:      (*CoreState)(nil),
}

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
