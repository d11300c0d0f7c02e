package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes refresh tasks to a fixed set of workers using consistent
// hashing on the session key, so two refreshes of one session never run at
// the same time.
type Dispatcher struct {
	workers   []chan ports.RefreshTask
	processor ports.RefreshProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

var _ ports.RefreshQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.RefreshProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.RefreshTask, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RefreshTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a task to the worker owning its session key. It never
// blocks: a full shard drops the task and the next poll tick retries.
func (d *Dispatcher) Enqueue(task ports.RefreshTask) bool {
	idx := d.shardIndex(task.SessionKey)
	select {
	case d.workers[idx] <- task:
		metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		d.log.Warn().Int("worker_id", idx).Msg("refresh queue full, task dropped")
		return false
	}
}

// shardIndex maps a session key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RefreshTask) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			metrics.RefreshQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, task); err != nil {
				d.log.Debug().Err(err).
					Int("worker_id", id).
					Msg("refresh failed")
			}
		}
	}
}
