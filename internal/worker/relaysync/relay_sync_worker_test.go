package relaysync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/places-service/internal/domain"
)

// fakeSource отдаёт заранее подготовленные подписки по очереди
type fakeSource struct {
	mu     sync.Mutex
	subs   []func(ctx context.Context) (<-chan domain.PlaceEvent, error)
	sinces []time.Time
}

func (f *fakeSource) QueryPlaces(context.Context, domain.PlaceFilter) ([]domain.PlaceEvent, error) {
	return nil, nil
}

func (f *fakeSource) QueryProfile(context.Context, string) (*domain.Profile, error) {
	return nil, nil
}

func (f *fakeSource) SubscribePlaces(ctx context.Context, since time.Time) (<-chan domain.PlaceEvent, error) {
	f.mu.Lock()
	f.sinces = append(f.sinces, since)
	if len(f.subs) == 0 {
		f.mu.Unlock()
		// последняя подписка висит до отмены
		ch := make(chan domain.PlaceEvent)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch, nil
	}
	next := f.subs[0]
	f.subs = f.subs[1:]
	f.mu.Unlock()
	return next(ctx)
}

func (f *fakeSource) Sinces() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.sinces...)
}

// recordingStream сохраняет опубликованные события
type recordingStream struct {
	mu        sync.Mutex
	published []domain.PlaceEvent
	fail      bool
}

func (r *recordingStream) CreateConsumerGroup(context.Context, string, string) error { return nil }

func (r *recordingStream) ConsumeBatch(context.Context, string, string, string, int64) ([]domain.StreamMessage, error) {
	return nil, nil
}

func (r *recordingStream) ConsumePending(context.Context, string, string, string, int64) ([]domain.StreamMessage, error) {
	return nil, nil
}

func (r *recordingStream) AckMessages(context.Context, string, string, []string) error { return nil }

func (r *recordingStream) AckMessage(context.Context, string, string, string) error { return nil }

func (r *recordingStream) PublishToStream(_ context.Context, stream string, data interface{}) error {
	if stream != domain.StreamPlaceEvents {
		return fmt.Errorf("unexpected stream %s", stream)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("redis down")
	}
	r.published = append(r.published, *data.(*domain.PlaceEvent))
	return nil
}

func (r *recordingStream) Published() []domain.PlaceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlaceEvent(nil), r.published...)
}

func closedWith(events ...domain.PlaceEvent) func(context.Context) (<-chan domain.PlaceEvent, error) {
	return func(context.Context) (<-chan domain.PlaceEvent, error) {
		ch := make(chan domain.PlaceEvent, len(events))
		for _, e := range events {
			ch <- e
		}
		close(ch)
		return ch, nil
	}
}

func failing(context.Context) (<-chan domain.PlaceEvent, error) {
	return nil, fmt.Errorf("all relays down")
}

var fixedNow = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func newTestWorker(source *fakeSource, stream *recordingStream) *RelaySyncWorker {
	w := NewRelaySyncWorker(source, stream, 24*time.Hour, zap.NewNop())
	w.now = func() time.Time { return fixedNow }
	return w
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
}

func TestRelaySyncWorker_ForwardsAndResubscribes(t *testing.T) {
	latest := fixedNow.Add(-time.Hour).Unix()
	source := &fakeSource{subs: []func(context.Context) (<-chan domain.PlaceEvent, error){
		closedWith(
			domain.PlaceEvent{ID: "a", CreatedAt: latest - 100},
			domain.PlaceEvent{ID: "b", CreatedAt: latest},
		),
	}}
	stream := &recordingStream{}
	w := newTestWorker(source, stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// вторая подписка начинается после переподключения
	waitFor(t, func() bool { return len(source.Sinces()) == 2 })

	published := stream.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "a", published[0].ID)

	sinces := source.Sinces()
	assert.Equal(t, fixedNow.Add(-24*time.Hour), sinces[0])
	assert.Equal(t, time.Unix(latest, 0).Add(-sinceOverlap), sinces[1])

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRelaySyncWorker_RetriesSubscribeErrors(t *testing.T) {
	source := &fakeSource{subs: []func(context.Context) (<-chan domain.PlaceEvent, error){failing}}
	stream := &recordingStream{}
	w := newTestWorker(source, stream)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	waitFor(t, func() bool { return len(source.Sinces()) == 2 })
	sinces := source.Sinces()
	assert.Equal(t, sinces[0], sinces[1], "since does not move without events")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit on cancel")
	}
}

func TestRelaySyncWorker_SkipsEventsThatFailToEnqueue(t *testing.T) {
	stream := &recordingStream{fail: true}
	w := newTestWorker(&fakeSource{}, stream)

	ch := make(chan domain.PlaceEvent, 1)
	ch <- domain.PlaceEvent{ID: "a", CreatedAt: 10}
	close(ch)

	latest, forwarded := w.forward(context.Background(), ch)
	assert.Equal(t, int64(0), latest)
	assert.Equal(t, 0, forwarded)
}
