package ulp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/coretalks/ulp.go/pkg/board"
	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

// State is the lifecycle state of the core.
type State int

// Core lifecycle states.
const (
	StateIdle State = iota
	StateLoaded
	StateRunning
	StateStopped
)

// String implements Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// WakeupSource selects what wakes the core for a program run.
type WakeupSource int

// Wakeup sources. Only the timer is implemented.
const (
	WakeupNone WakeupSource = iota
	WakeupTimer
)

// Config arms the core for running.
type Config struct {
	// WakeupSource selects the wake trigger.
	WakeupSource WakeupSource
	// SleepDuration is the period of the wakeup timer.
	SleepDuration time.Duration
}

// Lifecycle errors.
var (
	ErrBusy          = errors.New("core is running")
	ErrNotLoaded     = errors.New("no program loaded")
	ErrNoSymbol      = errors.New("no such symbol")
	ErrWakeupSource  = errors.New("unsupported wakeup source")
	ErrSleepDuration = errors.New("invalid sleep duration")
)

// Core emulates the co-processor. Create with NewCore. The host
// drives the lifecycle with Load, Run and Stop, and may read
// retained memory at any time with Peek. Program runs happen on the
// core's own schedule, driven by the runnable from Scheduler.
type Core struct {
	gpio board.GPIO

	lock  sync.Mutex
	state State
	prog  []Instr
	mem   []uint32
	syms  map[string]uint16
	cfg   Config
	wakes uint64

	armCh   chan struct{}
	sleeper func(context.Context, time.Duration)
}

// NewCore creates a Core driving pins through gpio.
func NewCore(gpio board.GPIO) *Core {
	return &Core{
		gpio:    gpio,
		armCh:   make(chan struct{}, 1),
		sleeper: sleepContext,
	}
}

// Load verifies img and installs its program. Retained memory is
// rebuilt as the image's data words followed by zeroed bss words,
// and the wake count resets. A verification failure leaves the
// previously loaded program untouched. Load fails with ErrBusy
// while the core runs.
func (c *Core) Load(img *image.Image) error {
	prog, err := DecodeText(img.Text)
	if err != nil {
		return err
	}
	retained := img.RetainedWords()
	if err = Verify(prog, retained); err != nil {
		return err
	}
	syms := make(map[string]uint16, len(img.Symbols))
	for _, sym := range img.Symbols {
		if int(sym.Addr) >= retained {
			return fmt.Errorf("symbol %q: %v", sym.Name, ErrBadAddress)
		}
		syms[sym.Name] = sym.Addr
	}
	mem := make([]uint32, retained)
	copy(mem, img.Data)

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state == StateRunning {
		return ErrBusy
	}
	c.state = StateLoaded
	c.prog = prog
	c.mem = mem
	c.syms = syms
	c.wakes = 0
	return nil
}

// Run arms the wakeup source. The loaded program then executes one
// full run per wake until Stop.
func (c *Core) Run(cfg Config) error {
	if cfg.WakeupSource != WakeupTimer {
		return ErrWakeupSource
	}
	if cfg.SleepDuration <= 0 {
		return ErrSleepDuration
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	switch c.state {
	case StateIdle:
		return ErrNotLoaded
	case StateRunning:
		return ErrBusy
	}
	c.cfg = cfg
	c.state = StateRunning
	c.nudge()
	return nil
}

// Stop disarms the wakeup source. The program and retained memory
// stay loaded and Run starts them again.
func (c *Core) Stop() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state == StateRunning {
		c.state = StateStopped
		c.nudge()
	}
}

// State retrieves the lifecycle state.
func (c *Core) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// WakeCount is the number of wakes since the last Load.
func (c *Core) WakeCount() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.wakes
}

// Peek reads one retained word. The host may peek at any time,
// including between wakes of a running program.
func (c *Core) Peek(addr uint16) (uint32, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if int(addr) >= len(c.mem) {
		return 0, ErrBadAddress
	}
	return c.mem[addr], nil
}

// PeekSymbol reads the retained word a symbol points at.
func (c *Core) PeekSymbol(name string) (uint32, error) {
	c.lock.Lock()
	addr, ok := c.syms[name]
	c.lock.Unlock()
	if !ok {
		return 0, ErrNoSymbol
	}
	return c.Peek(addr)
}

// Scheduler returns the runnable driving wakes. It parks until Run
// arms the core.
func (c *Core) Scheduler() fx.Runnable {
	return scheduler{core: c}
}

// AddToLoop implements LoopAdder.
func (c *Core) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c.Scheduler())
}

type scheduler struct {
	core *Core
}

// Name implements Named.
func (s scheduler) Name() string { return "ulp-core" }

// Run implements Runnable.
func (s scheduler) Run(ctx context.Context) error {
	return s.core.schedule(ctx)
}

func (c *Core) schedule(ctx context.Context) error {
	for {
		c.lock.Lock()
		running, period := c.state == StateRunning, c.cfg.SleepDuration
		c.lock.Unlock()
		if !running {
			select {
			case <-ctx.Done():
				return nil
			case <-c.armCh:
			}
			continue
		}

		glog.V(2).Infof("core armed, wake period %v", period)
		ticker := time.NewTicker(period)
	drive:
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return nil
			case <-c.armCh:
				break drive
			case <-ticker.C:
				c.wake(ctx)
				if c.State() != StateRunning {
					break drive
				}
			}
		}
		ticker.Stop()
	}
}

// nudge wakes the scheduler to re-read the lifecycle state.
// Callers hold the lock.
func (c *Core) nudge() {
	select {
	case c.armCh <- struct{}{}:
	default:
	}
}

// wake executes one full program run. The lock is not held across
// GPIO calls or sleeps, so the host can peek mid-run.
func (c *Core) wake(ctx context.Context) {
	c.lock.Lock()
	if c.state != StateRunning {
		c.lock.Unlock()
		return
	}
	c.wakes++
	wakes, prog := c.wakes, c.prog
	c.lock.Unlock()

	glog.V(4).Infof("core wake %d", wakes)
	for _, in := range prog {
		switch in.Op {
		case OpHalt:
			return
		case OpGPIOInit:
			c.logPinErr(in, c.gpio.Init(int(in.Arg)))
		case OpGPIOOutEn:
			c.logPinErr(in, c.gpio.OutputEnable(int(in.Arg)))
		case OpGPIOSet:
			c.logPinErr(in, c.gpio.SetLevel(int(in.Arg), c.loadWord(in.Imm)&1 != 0))
		case OpToggle:
			c.storeWord(in.Imm, c.loadWord(in.Imm)^1)
		case OpWakeCnt:
			c.storeWord(in.Imm, c.loadWord(in.Imm)+1)
		case OpSleep:
			c.sleeper(ctx, time.Duration(in.Imm)*time.Millisecond)
		}
	}
}

func (c *Core) loadWord(addr uint16) uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.mem[addr]
}

func (c *Core) storeWord(addr uint16, v uint32) {
	c.lock.Lock()
	c.mem[addr] = v
	c.lock.Unlock()
}

func (c *Core) logPinErr(in Instr, err error) {
	if err != nil {
		glog.Errorf("core %v: %v", in, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
