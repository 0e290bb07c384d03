package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/pkg/metrics"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 128
	deliveryTimeout = 5 * time.Second
)

// Dispatcher fans submissions out to the archive sinks on a fixed set of
// workers. Submissions from the same email land on the same worker, so one
// sender's messages are archived in the order they were received.
type Dispatcher struct {
	workers []chan domain.Submission
	sinks   []ports.SubmissionSink
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sinks []ports.SubmissionSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Submission, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Submission, channelBuffer)
	}
	return d
}

// Start launches the workers. When ctx is cancelled each worker archives what
// is still buffered and exits; Wait blocks until they are all done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// TryEnqueue hands s to its worker without blocking. It reports false when
// the worker's buffer is full.
func (d *Dispatcher) TryEnqueue(s domain.Submission) bool {
	idx := d.shardIndex(s.Email)
	select {
	case d.workers[idx] <- s:
		metrics.ArchiveQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		return false
	}
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Submission) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case s := <-ch:
			metrics.ArchiveQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(context.WithoutCancel(ctx), id, s)
		}
	}
}

func (d *Dispatcher) drain(id int, ch <-chan domain.Submission) {
	for {
		select {
		case s := <-ch:
			d.deliver(context.Background(), id, s)
		default:
			metrics.ArchiveQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

// deliver hands s to every sink. A failing sink does not stop the others.
func (d *Dispatcher) deliver(ctx context.Context, id int, s domain.Submission) {
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := sink.Deliver(sctx, s)
		cancel()
		if err != nil {
			metrics.ArchiveDeliveriesTotal.WithLabelValues(sink.Name(), "error").Inc()
			d.log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("submission_id", s.ID).
				Int("worker_id", id).
				Msg("submission archive failed")
			continue
		}
		metrics.ArchiveDeliveriesTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
}
