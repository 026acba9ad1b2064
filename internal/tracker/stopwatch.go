package tracker

import (
	"sync"
	"time"
)

// Stopwatch is the main workout timer: an elapsed-seconds counter driven by
// a recurring tick while running. This is the only autonomous activity of a
// session; stopping guarantees no further ticks are observable.
type Stopwatch struct {
	mutex    sync.Mutex
	interval time.Duration
	elapsed  int
	running  bool
	stop     chan struct{}
	done     chan struct{}
}

func NewStopwatch(interval time.Duration) *Stopwatch {
	if interval <= 0 {
		interval = time.Second
	}
	return &Stopwatch{
		interval: interval,
	}
}

// Start launches the ticking goroutine. Starting an already running
// stopwatch is a no-op.
func (sw *Stopwatch) Start() {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()

	if sw.running {
		return
	}
	sw.running = true
	sw.stop = make(chan struct{})
	sw.done = make(chan struct{})

	go sw.run(sw.stop, sw.done)
}

func (sw *Stopwatch) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.mutex.Lock()
			sw.elapsed++
			sw.mutex.Unlock()
		case <-stop:
			return
		}
	}
}

// Stop cancels the ticking goroutine and waits for it to exit, so that no
// tick lands after Stop returns. Stopping a stopped stopwatch is a no-op.
func (sw *Stopwatch) Stop() {
	sw.mutex.Lock()
	if !sw.running {
		sw.mutex.Unlock()
		return
	}
	sw.running = false
	close(sw.stop)
	done := sw.done
	sw.mutex.Unlock()

	<-done
}

// Reset zeroes the elapsed counter. The stopwatch keeps running if it was
// running.
func (sw *Stopwatch) Reset() {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	sw.elapsed = 0
}

func (sw *Stopwatch) Elapsed() int {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	return sw.elapsed
}

func (sw *Stopwatch) Running() bool {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	return sw.running
}
