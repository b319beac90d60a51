package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// ErrPollerRequired indicates an observer cannot be constructed without a poller.
var ErrPollerRequired = errors.New("observer poller is required")

// DefaultPollInterval is the re-poll cadence when none is configured.
const DefaultPollInterval = 5 * time.Second

// Poller performs a point read of a job's current state.
type Poller interface {
	GetJob(ctx context.Context, jobID string) (*model.AIJob, error)
}

// Subscriber optionally provides push notifications for a job id. The returned
// channel carries job snapshots; the returned func tears the subscription down.
// Implementations that cannot subscribe should return an error, which makes the
// observer fall back to polling alone.
type Subscriber interface {
	SubscribeJob(ctx context.Context, jobID string) (<-chan *model.AIJob, func(), error)
}

// ObserverOptions configure the behaviour of the default observer implementation.
type ObserverOptions struct {
	Poller     Poller     // Required: point reads
	Subscriber Subscriber // Optional: push channel; nil means poll-only
	Interval   time.Duration
	Logger     *slog.Logger
}

// Observer produces a stream of job snapshots per observed job id. Each
// observation is an independent, cancellable background task that owns a poll
// timer and, when available, a push subscription. Cancelling an observation
// stops the task; it never affects the underlying job's actual status.
type Observer struct {
	poller     Poller
	subscriber Subscriber
	interval   time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	cancels map[chan model.AIJob]context.CancelFunc
}

// NewObserver constructs the default observer implementation.
func NewObserver(opts ObserverOptions) (*Observer, error) {
	if opts.Poller == nil {
		return nil, ErrPollerRequired
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Observer{
		poller:     opts.Poller,
		subscriber: opts.Subscriber,
		interval:   interval,
		logger:     opts.Logger,
		cancels:    make(map[chan model.AIJob]context.CancelFunc),
	}, nil
}

// Observe starts observing a job. It emits an immediate point read, then a
// snapshot per poll tick or push notification, deduplicated on status and
// progress. The stream closes after a terminal snapshot is emitted, when the
// context is cancelled, or when the returned stop func is called.
//
// Transport errors during polling are logged and retried on the next tick;
// they never terminate the stream.
func (o *Observer) Observe(ctx context.Context, jobID string) (<-chan model.AIJob, func()) {
	out := make(chan model.AIJob, 1)
	obsCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	o.cancels[out] = cancel
	o.mu.Unlock()

	stop := func() {
		o.mu.Lock()
		if c, ok := o.cancels[out]; ok {
			c()
			delete(o.cancels, out)
		}
		o.mu.Unlock()
	}

	go o.observeLoop(obsCtx, jobID, out, stop)

	return out, stop
}

// StopAll cancels every in-flight observation.
func (o *Observer) StopAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for ch, cancel := range o.cancels {
		cancel()
		delete(o.cancels, ch)
	}
}

func (o *Observer) observeLoop(ctx context.Context, jobID string, out chan model.AIJob, stop func()) {
	defer close(out)
	defer stop()

	var push <-chan *model.AIJob
	if o.subscriber != nil {
		ch, unsub, err := o.subscriber.SubscribeJob(ctx, jobID)
		if err != nil {
			if o.logger != nil {
				o.logger.DebugContext(ctx, "push subscription unavailable, polling only",
					"job_id", jobID, "error", err)
			}
		} else {
			push = ch
			defer unsub()
		}
	}

	var last *model.AIJob

	// Immediate point read before the first tick.
	if done := o.pollOnce(ctx, jobID, out, &last); done {
		return
	}

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-push:
			if !ok {
				// Push channel closed; keep polling.
				push = nil
				continue
			}
			if snapshot == nil {
				continue
			}
			if done := o.emit(ctx, snapshot, out, &last); done {
				return
			}
		case <-ticker.C:
			if done := o.pollOnce(ctx, jobID, out, &last); done {
				return
			}
		}
	}
}

// pollOnce performs one point read. It returns true when observation should end.
func (o *Observer) pollOnce(ctx context.Context, jobID string, out chan model.AIJob, last **model.AIJob) bool {
	snapshot, err := o.poller.GetJob(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		// Retried on the next interval tick, not surfaced as a job failure.
		if o.logger != nil {
			o.logger.DebugContext(ctx, "job poll failed, will retry",
				"job_id", jobID, "error", err)
		}
		return false
	}
	return o.emit(ctx, snapshot, out, last)
}

// emit forwards a snapshot unless it duplicates the previous one. It returns
// true when the snapshot is terminal and observation should end.
func (o *Observer) emit(ctx context.Context, snapshot *model.AIJob, out chan model.AIJob, last **model.AIJob) bool {
	if snapshot == nil {
		return false
	}
	if *last != nil && (*last).Status == snapshot.Status && (*last).Progress == snapshot.Progress {
		return snapshot.Status.Terminal()
	}
	*last = snapshot

	select {
	case <-ctx.Done():
		return true
	case out <- *snapshot:
	}

	return snapshot.Status.Terminal()
}
