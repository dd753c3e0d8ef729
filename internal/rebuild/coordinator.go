package rebuild

import "sync"

// Runner executes one rebuild pass.
type Runner interface {
	Run() error
}

// Coordinator serializes rebuilds: at most one runs at a time, and any
// number of triggers arriving while one is in flight collapse into exactly
// one follow-up run. Trigger never blocks the caller.
type Coordinator struct {
	runner Runner
	onErr  func(error)

	mu      sync.Mutex
	running bool
	pending bool
	closed  bool
	wg      sync.WaitGroup
}

// NewCoordinator creates a Coordinator. onErr is the host error boundary
// for failed runs; it may be nil.
func NewCoordinator(runner Runner, onErr func(error)) *Coordinator {
	return &Coordinator{runner: runner, onErr: onErr}
}

// Trigger schedules a rebuild and returns immediately. If a rebuild is
// running, exactly one more will execute after it finishes, reading the
// configuration current at that later start.
func (c *Coordinator) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.running {
		c.pending = true
		return
	}
	c.running = true
	c.wg.Add(1)
	go c.loop()
}

func (c *Coordinator) loop() {
	defer c.wg.Done()
	for {
		if err := c.runner.Run(); err != nil && c.onErr != nil {
			// Run errors are reported, never swallowed into an empty
			// publish; the previous generation stays visible.
			c.onErr(err)
		}

		c.mu.Lock()
		if !c.pending {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.mu.Unlock()
	}
}

// Running reports whether a rebuild is currently executing.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Close waits synchronously for any in-flight rebuild (and its coalesced
// follow-up) to finish. Further triggers are ignored. No detached work
// survives Close.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}
