package plugin

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/particleflow/internal/app"
)

// Dispatcher runs subscribed plugins for wave events on a background
// goroutine, one event at a time, so the tick loop never waits on them.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan Request
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	dropped int
	results func(p *Plugin, resp *Response, err error)
}

// NewDispatcher starts a dispatcher.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		manager:  m,
		executor: e,
		queue:    make(chan Request, 16),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// OnResult registers fn to observe each plugin run. It runs on the dispatcher goroutine.
func (d *Dispatcher) OnResult(fn func(p *Plugin, resp *Response, err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = fn
}

// HandleWave queues a wave event. It never blocks; events arriving while
// the queue is full are dropped.
func (d *Dispatcher) HandleWave(e app.WaveEvent) {
	req := Request{
		Event:  EventWave,
		Shape:  e.Shape.String(),
		Color:  e.Color,
		TimeMs: e.Time.UnixMilli(),
	}
	select {
	case <-d.done:
		return
	default:
	}
	select {
	case d.queue <- req:
	default:
		d.mu.Lock()
		d.dropped++
		d.mu.Unlock()
	}
}

// Dropped returns the number of events dropped because the queue was full.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close cancels running plugins and stops the dispatcher. Queued events are discarded.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.cancel()
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.ctx.Done():
			return
		case req := <-d.queue:
			for _, p := range d.manager.For(req.Event) {
				r := req
				resp, err := d.executor.Execute(d.ctx, p, &r)
				switch {
				case err != nil:
					log.Printf("Plugin %s: %v", p.Manifest.Name, err)
				case !resp.Success:
					log.Printf("Plugin %s reported: %s", p.Manifest.Name, resp.Error)
				}

				d.mu.Lock()
				fn := d.results
				d.mu.Unlock()
				if fn != nil {
					fn(p, resp, err)
				}
			}
		}
	}
}
