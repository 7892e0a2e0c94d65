package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultLoopInterval is used when Loop.Interval is unset.
const DefaultLoopInterval = 100 * time.Millisecond

// Loop drives controllers over prioritized levels at a fixed interval.
// Messages posted from other goroutines are snapshot at the start of an
// iteration and visible to every controller of that iteration.
type Loop struct {
	Interval time.Duration

	levels [PriorityLevels]levelCtls

	runners []Runnable

	inbox msgList
	mu    sync.Mutex

	wakeCh chan struct{}
}

// LoopAdder wires a component into a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop with the default interval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultLoopInterval}
}

// Add wires LoopAdders into the loop.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level. Controllers
// that also implement Runnable are spawned alongside the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lvl := &l.levels[priorityLevel]
	lvl.fixed = append(lvl.fixed, ctls...)
	for _, ctl := range ctls {
		if r, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, r)
		}
	}
	return l
}

// AddRunnable registers background tasks spawned when the loop runs.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. The loop context handed to runnables and
// controllers carries LoopControl, retrievable with LoopCtlFrom.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeCh == nil {
		l.wakeCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, &loopCtl{l}))
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.iterate(ctx)
		case <-l.wakeCh:
			l.iterate(ctx)
		}
	}
}

// RunOrFail runs the loop from main and exits on error.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.TODO()); err != nil {
		log.Fatalln(err)
	}
}

// PreRunAt implements LoopControl.
func (l *Loop) PreRunAt(priorityLevel int, ctls ...Controller) {
	lvl := &l.levels[priorityLevel]
	lvl.mu.Lock()
	lvl.preOnce = append(lvl.preOnce, ctls...)
	lvl.mu.Unlock()
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(priorityLevel int, ctls ...Controller) {
	lvl := &l.levels[priorityLevel]
	lvl.mu.Lock()
	lvl.postOnce = append(lvl.postOnce, ctls...)
	lvl.mu.Unlock()
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.mu.Lock()
	l.inbox.push(&msgNode{msg: msg})
	l.mu.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

func (l *Loop) iterate(ctx context.Context) {
	tick := &loopTick{loopCtl: loopCtl{l}, now: time.Now()}
	l.mu.Lock()
	tick.msgs.take(&l.inbox)
	l.mu.Unlock()
	tick.ctx = context.WithValue(ctx, loopCtxKey, tick)
	for lv := 0; lv < PriorityLevels; lv++ {
		tick.level = lv
		l.levels[lv].run(tick)
	}
}

var loopCtxKey = &Loop{}

// LoopCtlFrom retrieves LoopControl from a loop-managed context.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// CtlCtxFrom retrieves ControlContext from a controller's context.
func CtlCtxFrom(ctx context.Context) ControlContext {
	return ctx.Value(loopCtxKey).(ControlContext)
}

type loopCtl struct {
	*Loop
}

// loopTick is the ControlContext of one iteration.
type loopTick struct {
	loopCtl
	ctx   context.Context
	now   time.Time
	level int
	msgs  msgList
}

func (t *loopTick) Context() context.Context { return t.ctx }
func (t *loopTick) Time() time.Time          { return t.now }
func (t *loopTick) PriorityLevel() int       { return t.level }
func (t *loopTick) Messages() MessageStore   { return t }

func (t *loopTick) PostRun(hooks ...Controller) {
	t.PostRunAt(t.level, hooks...)
}

func (t *loopTick) ProcessMessages(proc MessageProcessor) {
	var pending, kept msgList
	pending.take(&t.msgs)
	for pending.head != nil {
		mc := &msgCtx{tick: t, node: pending.head}
		pending.head = pending.head.next
		mc.node.next = nil
		proc.ProcessMessage(mc)
		if !mc.taken {
			kept.push(mc.node)
		}
		if mc.stop {
			kept.join(&pending)
			break
		}
	}
	kept.join(&t.msgs)
	t.msgs = kept
}

func (t *loopTick) AddMessages(msgs ...Message) {
	for _, msg := range msgs {
		t.msgs.push(&msgNode{msg: msg})
	}
}

// msgCtx implements MessageProcessingContext.
type msgCtx struct {
	tick  *loopTick
	node  *msgNode
	taken bool
	stop  bool
}

func (c *msgCtx) CurrentMessage() Message     { return c.node.msg }
func (c *msgCtx) MessageTaken()               { c.taken = true }
func (c *msgCtx) StopProcessing()             { c.stop = true }
func (c *msgCtx) AddMessages(msgs ...Message) { c.tick.AddMessages(msgs...) }

// msgList is a singly-linked message queue. Splicing whole lists keeps
// PostMessage cheap under the loop lock.
type msgList struct {
	head *msgNode
	tail *msgNode
}

type msgNode struct {
	msg  Message
	next *msgNode
}

func (l *msgList) push(node *msgNode) {
	if l.head == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
}

// take moves all nodes out of src.
func (l *msgList) take(src *msgList) {
	l.head, l.tail = src.head, src.tail
	src.head, src.tail = nil, nil
}

// join appends all nodes of lst.
func (l *msgList) join(lst *msgList) {
	if l.head == nil {
		l.head = lst.head
	} else {
		l.tail.next = lst.head
	}
	if lst.head != nil {
		l.tail = lst.tail
	}
}

// levelCtls holds the controllers of one priority level.
type levelCtls struct {
	preOnce  []Controller
	fixed    []Controller
	postOnce []Controller
	mu       sync.Mutex
}

func (c *levelCtls) run(tick *loopTick) {
	c.mu.Lock()
	once := c.preOnce
	c.preOnce = nil
	c.mu.Unlock()
	controlAll(tick, once)
	controlAll(tick, c.fixed)
	c.mu.Lock()
	once, c.postOnce = c.postOnce, nil
	c.mu.Unlock()
	controlAll(tick, once)
}

func controlAll(tick *loopTick, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(tick); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}
