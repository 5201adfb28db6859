package nostr

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/places-service/internal/config"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/pkg/errors"
)

// fakeRelay - релей в памяти
type fakeRelay struct {
	url        string
	events     []*nostr.Event
	stream     chan *nostr.Event
	queryErr   error
	publishErr error

	mu        sync.Mutex
	published []nostr.Event
	closed    int
}

func (f *fakeRelay) URL() string { return f.url }

func (f *fakeRelay) Query(_ context.Context, _ nostr.Filter) ([]*nostr.Event, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]*nostr.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeRelay) Subscribe(_ context.Context, _ nostr.Filter) (<-chan *nostr.Event, error) {
	if f.stream == nil {
		return nil, fmt.Errorf("subscriptions disabled")
	}
	return f.stream, nil
}

func (f *fakeRelay) Publish(_ context.Context, event nostr.Event) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
	return nil
}

func (f *fakeRelay) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func dialerFor(relays ...*fakeRelay) Dialer {
	byURL := make(map[string]*fakeRelay, len(relays))
	for _, r := range relays {
		byURL[r.url] = r
	}
	return func(_ context.Context, url string) (Relay, error) {
		r, ok := byURL[url]
		if !ok {
			return nil, fmt.Errorf("connection refused")
		}
		return r, nil
	}
}

func newRepo(t *testing.T, urls []string, dial Dialer) *RelayRepository {
	t.Helper()
	repo, err := NewRelayRepository(&config.NostrConfig{
		Relays:         urls,
		QueryTimeout:   time.Second,
		PublishTimeout: time.Second,
	}, dial, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func signedPlace(t *testing.T, sk, d string, createdAt int64, name string) *nostr.Event {
	t.Helper()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	event := &nostr.Event{
		PubKey:    pk,
		CreatedAt: nostr.Timestamp(createdAt),
		Kind:      domain.KindPlace,
		Tags:      nostr.Tags{{"d", d}, {"g", "c8x2"}},
		Content:   fmt.Sprintf(`{"type":"Feature","properties":{"name":%q},"geometry":{"type":"Point","coordinates":[-100.7,46.8]}}`, name),
	}
	require.NoError(t, event.Sign(sk))
	return event
}

func TestNewRelayRepository_SecretKey(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	nsec, err := nip19.EncodePrivateKey(sk)
	require.NoError(t, err)

	for name, key := range map[string]string{"hex": sk, "nsec": nsec} {
		t.Run(name, func(t *testing.T) {
			repo, err := NewRelayRepository(&config.NostrConfig{
				Relays:    []string{"wss://a"},
				SecretKey: key,
			}, dialerFor(), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, pk, repo.PublicKey())
		})
	}

	t.Run("ephemeral", func(t *testing.T) {
		repo := newRepo(t, []string{"wss://a"}, dialerFor())
		assert.Len(t, repo.PublicKey(), 64)
	})

	t.Run("no relays", func(t *testing.T) {
		_, err := NewRelayRepository(&config.NostrConfig{}, nil, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestQueryPlaces_KeepsLatestVersion(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	old := signedPlace(t, sk, "Cafe", 1700000000, "Cafe")
	latest := signedPlace(t, sk, "Cafe", 1700000500, "Cafe")
	other := signedPlace(t, sk, "Museum", 1700000100, "Museum")

	a := &fakeRelay{url: "wss://a", events: []*nostr.Event{old, other}}
	b := &fakeRelay{url: "wss://b", events: []*nostr.Event{latest, other}}

	repo := newRepo(t, []string{a.url, b.url}, dialerFor(a, b))

	places, err := repo.QueryPlaces(context.Background(), domain.PlaceFilter{})
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, latest.ID, places[0].ID)
	assert.Equal(t, other.ID, places[1].ID)
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

func TestQueryPlaces_DropsForgedEvents(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	good := signedPlace(t, sk, "Cafe", 1700000000, "Cafe")
	forged := signedPlace(t, sk, "Museum", 1700000000, "Museum")
	forged.Content = `{"type":"Feature","properties":{"name":"Fake"}}`

	a := &fakeRelay{url: "wss://a", events: []*nostr.Event{good, forged}}
	repo := newRepo(t, []string{a.url}, dialerFor(a))

	places, err := repo.QueryPlaces(context.Background(), domain.PlaceFilter{})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, good.ID, places[0].ID)
}

func TestQueryPlaces_Limit(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	a := &fakeRelay{url: "wss://a", events: []*nostr.Event{
		signedPlace(t, sk, "One", 1700000001, "One"),
		signedPlace(t, sk, "Two", 1700000002, "Two"),
		signedPlace(t, sk, "Three", 1700000003, "Three"),
	}}
	repo := newRepo(t, []string{a.url}, dialerFor(a))

	places, err := repo.QueryPlaces(context.Background(), domain.PlaceFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, int64(1700000003), places[0].CreatedAt)
}

func TestQueryPlaces_PartialFailure(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	a := &fakeRelay{url: "wss://a", queryErr: fmt.Errorf("rate limited")}
	b := &fakeRelay{url: "wss://b", events: []*nostr.Event{signedPlace(t, sk, "Cafe", 1700000000, "Cafe")}}

	// wss://c нет в dialer - соединение не откроется
	repo := newRepo(t, []string{a.url, b.url, "wss://c"}, dialerFor(a, b))

	places, err := repo.QueryPlaces(context.Background(), domain.PlaceFilter{})
	require.NoError(t, err)
	assert.Len(t, places, 1)
}

func TestQueryPlaces_AllRelaysFail(t *testing.T) {
	a := &fakeRelay{url: "wss://a", queryErr: fmt.Errorf("boom")}
	repo := newRepo(t, []string{a.url, "wss://b"}, dialerFor(a))

	_, err := repo.QueryPlaces(context.Background(), domain.PlaceFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRelayError)
}

func TestQueryProfile(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)

	profile := func(createdAt int64, content string) *nostr.Event {
		e := &nostr.Event{PubKey: pk, CreatedAt: nostr.Timestamp(createdAt), Kind: domain.KindProfile, Content: content}
		require.NoError(t, e.Sign(sk))
		return e
	}

	a := &fakeRelay{url: "wss://a", events: []*nostr.Event{
		profile(1700000000, `{"name":"old"}`),
		profile(1700000900, `{"name":"satoshi","displayName":"Satoshi N"}`),
	}}
	repo := newRepo(t, []string{a.url}, dialerFor(a))

	got, err := repo.QueryProfile(context.Background(), pk)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "satoshi", got.Name)
	assert.Equal(t, "Satoshi N", got.DisplayName)
	assert.Equal(t, "Satoshi N", got.BestName())

	missing, err := repo.QueryProfile(context.Background(), "00")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPublish(t *testing.T) {
	a := &fakeRelay{url: "wss://a"}
	b := &fakeRelay{url: "wss://b", publishErr: fmt.Errorf("blocked: pow required")}
	repo := newRepo(t, []string{a.url, b.url}, dialerFor(a, b))

	payload := &domain.PlacePayload{
		Kind: domain.KindPlace,
		Tags: domain.Tags{{"d", "Cafe"}, {"g", "c8x2"}},
		Content: domain.PlaceContent{
			Type:       "Feature",
			Geometry:   &domain.Geometry{Type: "Point", Coordinates: []float64{-100.7, 46.8}},
			Properties: &domain.Properties{Name: "Cafe"},
		},
	}

	result, err := repo.Publish(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, []string{"wss://a"}, result.Accepted)
	assert.Contains(t, result.Failed["wss://b"], "pow required")
	assert.Equal(t, repo.PublicKey(), result.Event.PubKey)

	require.Len(t, a.published, 1)
	ok, err := a.published[0].CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cafe", a.published[0].Tags.GetD())

	place, err := result.Event.ToPlace()
	require.NoError(t, err)
	assert.Equal(t, "Cafe", place.Content.Properties.Name)
}

func TestPublish_NoRelayAccepted(t *testing.T) {
	a := &fakeRelay{url: "wss://a", publishErr: fmt.Errorf("read-only")}
	repo := newRepo(t, []string{a.url, "wss://down"}, dialerFor(a))

	_, err := repo.Publish(context.Background(), &domain.PlacePayload{
		Kind:    domain.KindPlace,
		Tags:    domain.Tags{{"d", "Cafe"}},
		Content: domain.PlaceContent{Type: "Feature", Properties: &domain.Properties{Name: "Cafe"}},
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrRelayError.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "wss://a")
	assert.Contains(t, appErr.Details, "wss://down")
}

func TestSubscribePlaces_MergesAndDedupes(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	first := signedPlace(t, sk, "Cafe", 1700000000, "Cafe")
	second := signedPlace(t, sk, "Museum", 1700000001, "Museum")

	a := &fakeRelay{url: "wss://a", stream: make(chan *nostr.Event, 4)}
	b := &fakeRelay{url: "wss://b", stream: make(chan *nostr.Event, 4)}
	a.stream <- first
	b.stream <- first
	b.stream <- second
	close(a.stream)
	close(b.stream)

	repo := newRepo(t, []string{a.url, b.url}, dialerFor(a, b))

	events, err := repo.SubscribePlaces(context.Background(), time.Unix(1700000000, 0))
	require.NoError(t, err)

	var ids []string
	for event := range events {
		ids = append(ids, event.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
}

func TestSubscribePlaces_NoRelays(t *testing.T) {
	repo := newRepo(t, []string{"wss://down"}, dialerFor())

	_, err := repo.SubscribePlaces(context.Background(), time.Now())
	assert.ErrorIs(t, err, errors.ErrRelayError)
}
