// Package notify delivers OTP messages to citizens' phones.
package notify

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
	"github.com/madinti/madinti-api/pkg/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	sendTimeout    = 10 * time.Second
	drainTimeout   = 5 * time.Second
)

// ErrQueueFull is returned by Send when the worker for a phone number has no
// room left. The message is dropped.
var ErrQueueFull = errors.New("notification queue full")

type message struct {
	phone string
	body  string
}

// Dispatcher decouples OTP delivery from the request path. Messages are
// routed to a fixed set of workers by hashing the phone number, so messages
// to the same phone are delivered in order.
type Dispatcher struct {
	workers []chan message
	sender  ports.Notifier
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a buffer of size buffer. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, sender ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		sender:  sender,
		log:     log.With().Str("component", "notify").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, buffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled, after
// delivering what is already queued.
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

// Send enqueues a message without blocking. The caller's context is not
// carried over: delivery outlives the request.
func (d *Dispatcher) Send(_ context.Context, phone, body string) error {
	idx := d.shardIndex(phone)
	select {
	case d.workers[idx] <- message{phone: phone, body: body}:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

func (d *Dispatcher) shardIndex(phone string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan message) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, label, ch)
			return
		case msg := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, msg)
		}
	}
}

// drain flushes the buffered messages with a fresh deadline.
func (d *Dispatcher) drain(id int, label string, ch chan message) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case msg := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg message) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, msg.phone, msg.body)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("phone", domain.MaskPhone(msg.phone)).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
