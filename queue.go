package chattl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pslog"
)

// QueueConfig controls pacing and retry behavior of the RequestQueue.
type QueueConfig struct {
	Spacing time.Duration // Minimum gap after a successful call before the next dispatch
	Retry   RetryConfig
}

// DefaultQueueConfig returns the default pacing: 200ms spacing, three
// rate-limit retries starting at one second.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Spacing: 200 * time.Millisecond,
		Retry:   DefaultRetryConfig(),
	}
}

// QueuedRequest is one translation call awaiting dispatch.
type QueuedRequest struct {
	ID         string
	Request    TranslateRequest
	RetryCount int

	done      chan queueResult
	abandoned atomic.Bool
	once      sync.Once
}

type queueResult struct {
	text string
	err  error
}

func (r *QueuedRequest) finish(text string, err error) {
	r.once.Do(func() {
		r.done <- queueResult{text: text, err: err}
		close(r.done)
	})
}

// Wait blocks until the request resolves or ctx is done. A request abandoned
// before dispatch is skipped by the worker; one already in flight is not cancelled.
func (r *QueuedRequest) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-r.done:
		return res.text, res.err
	case <-ctx.Done():
		r.abandoned.Store(true)
		return "", ctx.Err()
	}
}

// RequestQueue serializes translation calls against a provider. At most one
// request is in flight at a time, successive dispatches are spaced by
// QueueConfig.Spacing, and rate-limited requests are retried with exponential
// backoff from the front of the queue.
type RequestQueue struct {
	provider Provider
	cfg      QueueConfig
	pacer    *Pacer
	log      pslog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	items      []*QueuedRequest
	processing bool
	closed     bool
	idle       *sync.Cond
}

// QueueOption is a functional option for configuring the RequestQueue.
type QueueOption func(*RequestQueue)

// WithQueueConfig sets spacing and retry behavior.
func WithQueueConfig(cfg QueueConfig) QueueOption {
	return func(q *RequestQueue) {
		q.cfg = cfg
	}
}

// WithQueueLogger sets the logger for retries and failures.
func WithQueueLogger(log pslog.Logger) QueueOption {
	return func(q *RequestQueue) {
		if log != nil {
			q.log = log
		}
	}
}

// NewRequestQueue creates a queue dispatching to provider.
func NewRequestQueue(provider Provider, opts ...QueueOption) *RequestQueue {
	q := &RequestQueue{
		provider: provider,
		cfg:      DefaultQueueConfig(),
		log:      pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pacer = NewPacer(q.cfg.Spacing)
	q.ctx, q.cancel = context.WithCancel(context.Background())
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds req to the queue and waits for its result.
func (q *RequestQueue) Enqueue(ctx context.Context, req TranslateRequest) (string, error) {
	return q.Submit(req).Wait(ctx)
}

// Submit adds req to the back of the queue without waiting.
func (q *RequestQueue) Submit(req TranslateRequest) *QueuedRequest {
	item := &QueuedRequest{
		ID:      uuid.NewString(),
		Request: req,
		done:    make(chan queueResult, 1),
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		item.finish("", ErrQueueClosed)
		return item
	}
	q.items = append(q.items, item)
	start := !q.processing
	q.processing = true
	q.mu.Unlock()

	if start {
		go q.process()
	}
	return item
}

// Len returns the number of requests waiting for dispatch.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain blocks until the worker has nothing left to do.
func (q *RequestQueue) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.processing {
		q.idle.Wait()
	}
}

// Close rejects all waiting requests with ErrQueueClosed and stops the worker.
// A request already in flight sees its context cancelled.
func (q *RequestQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := q.items
	q.items = nil
	q.mu.Unlock()

	q.cancel()
	for _, item := range pending {
		item.finish("", ErrQueueClosed)
	}
}

// next pops the front item, or marks the worker stopped when there is none.
func (q *RequestQueue) next() (*QueuedRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 || q.closed {
		q.processing = false
		q.idle.Broadcast()
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *RequestQueue) pushFront(item *QueuedRequest) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append([]*QueuedRequest{item}, q.items...)
	return true
}

func (q *RequestQueue) process() {
	for {
		item, ok := q.next()
		if !ok {
			return
		}
		if item.abandoned.Load() {
			item.finish("", context.Canceled)
			continue
		}

		if err := q.pacer.Wait(q.ctx); err != nil {
			item.finish("", ErrQueueClosed)
			continue
		}

		log := q.log.With("id", item.ID, "provider", item.Request.Provider)
		result, err := q.provider.Translate(q.ctx, item.Request)
		if err == nil {
			q.pacer.Mark()
			item.finish(result, nil)
			continue
		}

		if IsRateLimited(err) && item.RetryCount < q.cfg.Retry.MaxRetries {
			delay := q.cfg.Retry.Backoff(item.RetryCount)
			item.RetryCount++
			log.Warn("translation rate limited, backing off",
				"delay", delay.String(), "attempt", item.RetryCount, "max", q.cfg.Retry.MaxRetries)

			if sleepCtx(q.ctx, delay) != nil || !q.pushFront(item) {
				item.finish("", ErrQueueClosed)
			}
			continue
		}

		log.Error("translation request failed", "err", err, "retries", item.RetryCount, "transient", IsTransient(err))
		item.finish("", err)
	}
}
