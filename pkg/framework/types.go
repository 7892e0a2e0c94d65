package framework

import (
	"context"
	"time"
)

// Named is implemented by components that identify themselves in logs.
type Named interface {
	Name() string
}

// Runnable is a background task driven by a context.
type Runnable interface {
	Run(context.Context) error
}

// Message is an item posted to a control loop for later processing.
type Message interface {
	// NewMessage creates an empty instance of the same message type.
	NewMessage() Message
}

// Controller is a unit of control logic invoked every loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// TimeSource provides the time observed by control logic.
// Controllers use it instead of the wall clock so their behavior
// stays deterministic under test.
type TimeSource interface {
	Time() time.Time
}

// ControlContext is the per-iteration view handed to controllers.
type ControlContext interface {
	TimeSource
	// Context retrieves the context.Context of the running loop.
	Context() context.Context
	// PriorityLevel gets the level currently being executed.
	PriorityLevel() int
	// Messages accesses the messages collected when this
	// iteration started.
	Messages() MessageStore
	// PostRun installs one-shot hooks at the current priority
	// level, executed after the level's regular controllers.
	// Hooks installed from within a hook run next iteration.
	PostRun(hooks ...Controller)

	LoopControl
}

// PriorityLevels is the total number of priority levels in a loop.
const PriorityLevels int = 16

// Predefined priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvControl is the level for command processing.
	PrLvControl = PrLvNormal
	// PrLvActuate is the level for device actuation.
	PrLvActuate = PrLvLow
	// PrLvReport is the level for telemetry and visualization.
	PrLvReport = PrLvIdle - 1
)

// LoopControl exposes thread-safe access to a running loop.
type LoopControl interface {
	// PreRunAt installs one-shot hooks executed before the regular
	// controllers the next time the given level runs.
	PreRunAt(priorityLevel int, controllers ...Controller)
	// PostRunAt installs one-shot hooks executed after the regular
	// controllers the next time the given level runs.
	PostRunAt(priorityLevel int, controllers ...Controller)
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext requests an immediate iteration instead of
	// waiting for the interval timer.
	TriggerNext()
}

// MessageStore provides read/write access to collected messages.
type MessageStore interface {
	// ProcessMessages walks all messages using the processor.
	ProcessMessages(MessageProcessor)

	MessageAppender
}

// MessageAppender appends messages to a store.
type MessageAppender interface {
	// AddMessages appends messages for the next processing cycle.
	AddMessages(msgs ...Message)
}

// MessageProcessor examines messages one at a time.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the view of the message under processing.
type MessageProcessingContext interface {
	// CurrentMessage gets the message being examined.
	CurrentMessage() Message
	// MessageTaken marks the message consumed so it is removed
	// from the store.
	MessageTaken()
	// StopProcessing abandons examination of further messages.
	StopProcessing()

	MessageAppender
}
