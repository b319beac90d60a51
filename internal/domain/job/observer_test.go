package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// scriptedPoller returns snapshots in order, repeating the last one.
type scriptedPoller struct {
	mu        sync.Mutex
	snapshots []*model.AIJob
	errs      []error
	calls     int
}

func (p *scriptedPoller) GetJob(_ context.Context, _ string) (*model.AIJob, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.snapshots) {
		i = len(p.snapshots) - 1
	}
	return p.snapshots[i], nil
}

type stubSubscriber struct {
	ch  chan *model.AIJob
	err error

	mu         sync.Mutex
	unsubbed   bool
	subscribed bool
}

func (s *stubSubscriber) SubscribeJob(_ context.Context, _ string) (<-chan *model.AIJob, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.mu.Lock()
	s.subscribed = true
	s.mu.Unlock()
	return s.ch, func() {
		s.mu.Lock()
		s.unsubbed = true
		s.mu.Unlock()
	}, nil
}

func collect(t *testing.T, ch <-chan model.AIJob, want int) []model.AIJob {
	t.Helper()
	var got []model.AIJob
	timeout := time.After(2 * time.Second)
	for len(got) < want {
		select {
		case snap, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, snap)
		case <-timeout:
			t.Fatalf("timed out waiting for %d snapshots, got %d", want, len(got))
		}
	}
	return got
}

func TestNewObserver_RequiresPoller(t *testing.T) {
	_, err := NewObserver(ObserverOptions{})
	require.ErrorIs(t, err, ErrPollerRequired)
}

func TestObserver_EmitsUntilTerminal(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusQueued},
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 40},
		{ID: "j1", Status: model.AIJobStatusSucceeded, Progress: 100},
	}}
	obs, err := NewObserver(ObserverOptions{Poller: poller, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	defer stop()

	got := collect(t, ch, 3)
	assert.Equal(t, model.AIJobStatusQueued, got[0].Status)
	assert.Equal(t, model.AIJobStatusRunning, got[1].Status)
	assert.Equal(t, model.AIJobStatusSucceeded, got[2].Status)

	// Stream closes after the terminal snapshot.
	_, open := <-ch
	assert.False(t, open)
}

func TestObserver_DeduplicatesUnchangedSnapshots(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 10},
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 10},
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 10},
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 70},
		{ID: "j1", Status: model.AIJobStatusSucceeded, Progress: 100},
	}}
	obs, err := NewObserver(ObserverOptions{Poller: poller, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	defer stop()

	got := collect(t, ch, 3)
	assert.Equal(t, 10, got[0].Progress)
	assert.Equal(t, 70, got[1].Progress)
	assert.Equal(t, model.AIJobStatusSucceeded, got[2].Status)
}

func TestObserver_PollErrorsAreRetried(t *testing.T) {
	poller := &scriptedPoller{
		errs: []error{errors.New("transient"), nil},
		snapshots: []*model.AIJob{
			{ID: "j1", Status: model.AIJobStatusSucceeded, Progress: 100},
		},
	}
	obs, err := NewObserver(ObserverOptions{Poller: poller, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	defer stop()

	got := collect(t, ch, 1)
	assert.Equal(t, model.AIJobStatusSucceeded, got[0].Status)
}

func TestObserver_PushSnapshotsAreForwarded(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusQueued},
	}}
	sub := &stubSubscriber{ch: make(chan *model.AIJob, 2)}
	obs, err := NewObserver(ObserverOptions{
		Poller:     poller,
		Subscriber: sub,
		Interval:   time.Hour, // push only after the initial read
	})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	defer stop()

	got := collect(t, ch, 1)
	assert.Equal(t, model.AIJobStatusQueued, got[0].Status)

	sub.ch <- &model.AIJob{ID: "j1", Status: model.AIJobStatusRunning, Progress: 50}
	sub.ch <- &model.AIJob{ID: "j1", Status: model.AIJobStatusFailed}

	got = collect(t, ch, 2)
	assert.Equal(t, model.AIJobStatusRunning, got[0].Status)
	assert.Equal(t, model.AIJobStatusFailed, got[1].Status)

	_, open := <-ch
	assert.False(t, open)
}

func TestObserver_SubscribeErrorFallsBackToPolling(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 20},
		{ID: "j1", Status: model.AIJobStatusSucceeded, Progress: 100},
	}}
	sub := &stubSubscriber{err: errors.New("pubsub down")}
	obs, err := NewObserver(ObserverOptions{
		Poller:     poller,
		Subscriber: sub,
		Interval:   5 * time.Millisecond,
	})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	defer stop()

	got := collect(t, ch, 2)
	assert.Equal(t, model.AIJobStatusSucceeded, got[1].Status)
}

func TestObserver_StopEndsStream(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 10},
	}}
	obs, err := NewObserver(ObserverOptions{Poller: poller, Interval: time.Hour})
	require.NoError(t, err)

	ch, stop := obs.Observe(context.Background(), "j1")
	collect(t, ch, 1)

	stop()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after stop")
	}
}

func TestObserver_StopAll(t *testing.T) {
	poller := &scriptedPoller{snapshots: []*model.AIJob{
		{ID: "j1", Status: model.AIJobStatusRunning, Progress: 10},
	}}
	obs, err := NewObserver(ObserverOptions{Poller: poller, Interval: time.Hour})
	require.NoError(t, err)

	ch1, _ := obs.Observe(context.Background(), "j1")
	ch2, _ := obs.Observe(context.Background(), "j1")
	collect(t, ch1, 1)
	collect(t, ch2, 1)

	obs.StopAll()

	for _, ch := range []<-chan model.AIJob{ch1, ch2} {
		select {
		case _, open := <-ch:
			assert.False(t, open)
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not close after StopAll")
		}
	}
}
