package queue

import (
	"context"
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 10 * time.Second
)

// Dispatcher is an ports.ImageStore that saves synchronously and deletes in
// the background. Deletes are routed to a fixed set of workers by hashing the
// file name, so operations on one file run in order.
type Dispatcher struct {
	workers []chan string
	store   ports.ImageStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher wraps store with numWorkers delete workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ports.ImageStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the workers
// finish the deletes already queued and exit; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	return d.store.Save(ctx, name, r, size, contentType)
}

// Delete queues name for removal. It blocks only while the worker's buffer is full.
func (d *Dispatcher) Delete(ctx context.Context, name string) error {
	select {
	case d.workers[d.shardIndex(name)] <- name:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a file name deterministically to a worker index.
func (d *Dispatcher) shardIndex(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case name := <-ch:
			d.remove(ctx, id, name)
		}
	}
}

// drain processes whatever is still buffered after shutdown was requested.
func (d *Dispatcher) drain(id int, ch <-chan string) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case name := <-ch:
			d.remove(ctx, id, name)
		default:
			return
		}
	}
}

func (d *Dispatcher) remove(ctx context.Context, id int, name string) {
	if err := d.store.Delete(ctx, name); err != nil {
		d.log.Error().Err(err).
			Str("filename", name).
			Int("worker_id", id).
			Msg("image delete failed")
	}
}
