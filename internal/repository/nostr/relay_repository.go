package nostr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/places-service/internal/config"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const seenCacheSize = 10000

// RelayRepository читает и публикует места на набор релеев.
// Соединения открываются на время операции, общего пула нет.
type RelayRepository struct {
	relays         []string
	secretKey      string
	publicKey      string
	queryTimeout   time.Duration
	publishTimeout time.Duration
	limiter        *rate.Limiter
	dial           Dialer
	logger         *zap.Logger
}

// NewRelayRepository создаёт репозиторий. Без NOSTR_SECRET_KEY
// генерируется временный ключ, места будут подписаны им.
func NewRelayRepository(cfg *config.NostrConfig, dial Dialer, logger *zap.Logger) (*RelayRepository, error) {
	if len(cfg.Relays) == 0 {
		return nil, fmt.Errorf("no relays configured")
	}
	if dial == nil {
		dial = DialWebsocket
	}

	secretKey, err := parseSecretKey(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	if secretKey == "" {
		secretKey = nostr.GeneratePrivateKey()
		logger.Warn("NOSTR_SECRET_KEY is not set, using an ephemeral key")
	}

	publicKey, err := nostr.GetPublicKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	limit := rate.Inf
	if cfg.PublishRate > 0 {
		limit = rate.Limit(cfg.PublishRate)
	}

	logger.Info("Nostr relays configured",
		zap.Strings("relays", cfg.Relays),
		zap.String("pubkey", publicKey),
	)

	return &RelayRepository{
		relays:         append([]string(nil), cfg.Relays...),
		secretKey:      secretKey,
		publicKey:      publicKey,
		queryTimeout:   cfg.QueryTimeout,
		publishTimeout: cfg.PublishTimeout,
		limiter:        rate.NewLimiter(limit, len(cfg.Relays)),
		dial:           dial,
		logger:         logger,
	}, nil
}

// parseSecretKey принимает hex или nsec
func parseSecretKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "nsec1") {
		return key, nil
	}

	prefix, value, err := nip19.Decode(key)
	if err != nil || prefix != "nsec" {
		return "", fmt.Errorf("invalid nsec secret key: %v", err)
	}
	sk, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid nsec secret key")
	}
	return sk, nil
}

func (r *RelayRepository) PublicKey() string {
	return r.publicKey
}

func (r *RelayRepository) QueryPlaces(ctx context.Context, filter domain.PlaceFilter) ([]domain.PlaceEvent, error) {
	events, err := r.query(ctx, toNostrFilter(domain.KindPlace, filter))
	if err != nil {
		return nil, err
	}

	// replaceable: одна версия на (pubkey, d)
	latest := make(map[string]*nostr.Event)
	for _, event := range events {
		d := event.Tags.GetD()
		if d == "" {
			continue
		}
		key := domain.CoordinateKey(event.PubKey, d)
		if current, ok := latest[key]; !ok || newer(event, current) {
			latest[key] = event
		}
	}

	result := make([]domain.PlaceEvent, 0, len(latest))
	for _, event := range latest {
		result = append(result, toPlaceEvent(event))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *RelayRepository) QueryProfile(ctx context.Context, pubkey string) (*domain.Profile, error) {
	events, err := r.query(ctx, nostr.Filter{
		Kinds:   []int{domain.KindProfile},
		Authors: []string{pubkey},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}

	var best *nostr.Event
	for _, event := range events {
		if event.PubKey != pubkey {
			continue
		}
		if best == nil || newer(event, best) {
			best = event
		}
	}
	if best == nil {
		return nil, nil
	}

	profile, err := toProfile(best)
	if err != nil {
		r.logger.Warn("Failed to decode profile", zap.String("pubkey", pubkey), zap.Error(err))
		return &domain.Profile{PubKey: pubkey, UpdatedAt: time.Unix(int64(best.CreatedAt), 0).UTC()}, nil
	}
	return profile, nil
}

// query опрашивает все релеи параллельно. Ошибка возвращается только
// если не ответил ни один релей. События с неверной подписью отбрасываются.
func (r *RelayRepository) query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		events   []*nostr.Event
		seen     = make(map[string]struct{})
		failures int
		lastErr  error
	)

	for _, url := range r.relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			found, err := r.queryRelay(ctx, url, filter)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures++
				lastErr = err
				r.logger.Warn("Relay query failed", zap.String("relay", url), zap.Error(err))
				return
			}
			for _, event := range found {
				if _, dup := seen[event.ID]; dup {
					continue
				}
				seen[event.ID] = struct{}{}
				events = append(events, event)
			}
		}(url)
	}
	wg.Wait()

	if failures == len(r.relays) {
		return nil, errors.ErrRelayError.WithMessage("all relays failed").WithCause(lastErr)
	}

	r.logger.Debug("Relays queried",
		zap.Ints("kinds", filter.Kinds),
		zap.Int("events", len(events)),
		zap.Int("failed_relays", failures),
	)
	return events, nil
}

func (r *RelayRepository) queryRelay(ctx context.Context, url string, filter nostr.Filter) ([]*nostr.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.queryTimeout)
	defer cancel()

	relay, err := r.dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer relay.Close()

	events, err := relay.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	valid := events[:0]
	for _, event := range events {
		if !r.verify(url, event) {
			continue
		}
		valid = append(valid, event)
	}
	return valid, nil
}

// SubscribePlaces слушает новые места на всех релеях. Канал закрывается,
// когда завершились все подписки.
func (r *RelayRepository) SubscribePlaces(ctx context.Context, since time.Time) (<-chan domain.PlaceEvent, error) {
	ts := nostr.Timestamp(since.Unix())
	filter := nostr.Filter{
		Kinds: []int{domain.KindPlace},
		Since: &ts,
	}

	var streams []<-chan *nostr.Event
	var connected []Relay
	for _, url := range r.relays {
		relay, err := r.dial(ctx, url)
		if err != nil {
			r.logger.Warn("Failed to connect to relay", zap.String("relay", url), zap.Error(err))
			continue
		}
		stream, err := relay.Subscribe(ctx, filter)
		if err != nil {
			r.logger.Warn("Failed to subscribe to relay", zap.String("relay", url), zap.Error(err))
			relay.Close()
			continue
		}
		streams = append(streams, stream)
		connected = append(connected, relay)
	}

	if len(streams) == 0 {
		return nil, errors.ErrRelayError.WithMessage("failed to subscribe to any relay")
	}

	out := make(chan domain.PlaceEvent)
	merged := make(chan *nostr.Event)

	var wg sync.WaitGroup
	for i, stream := range streams {
		wg.Add(1)
		go func(relay Relay, stream <-chan *nostr.Event) {
			defer wg.Done()
			defer relay.Close()

			for event := range stream {
				if !r.verify(relay.URL(), event) {
					continue
				}
				select {
				case merged <- event:
				case <-ctx.Done():
					return
				}
			}
		}(connected[i], stream)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	go func() {
		defer close(out)

		// одно и то же событие приходит с нескольких релеев
		seen := make(map[string]struct{})
		for event := range merged {
			if _, dup := seen[event.ID]; dup {
				continue
			}
			if len(seen) >= seenCacheSize {
				seen = make(map[string]struct{})
			}
			seen[event.ID] = struct{}{}

			select {
			case out <- toPlaceEvent(event):
			case <-ctx.Done():
				// дочитываем merged, чтобы отправители не зависли
				for range merged {
				}
				return
			}
		}
	}()

	r.logger.Info("Subscribed to place events",
		zap.Int("relays", len(streams)),
		zap.Time("since", since),
	)
	return out, nil
}

// Publish подписывает payload ключом сервиса и отправляет на все релеи.
// Успех, если событие принял хотя бы один релей.
func (r *RelayRepository) Publish(ctx context.Context, payload *domain.PlacePayload) (*domain.PublishResult, error) {
	content, err := payload.ContentJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithCause(err)
	}

	event := nostr.Event{
		PubKey:    r.publicKey,
		CreatedAt: nostr.Now(),
		Kind:      payload.Kind,
		Tags:      toNostrTags(payload.Tags),
		Content:   content,
	}
	if err := event.Sign(r.secretKey); err != nil {
		return nil, errors.ErrInternalServer.WithMessage("failed to sign place event").WithCause(err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		accepted []string
		failed   = make(map[string]string)
	)

	for _, url := range r.relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			err := r.publishRelay(ctx, url, event)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[url] = err.Error()
				r.logger.Warn("Relay rejected place", zap.String("relay", url), zap.String("event_id", event.ID), zap.Error(err))
				return
			}
			accepted = append(accepted, url)
		}(url)
	}
	wg.Wait()

	sort.Strings(accepted)
	if len(accepted) == 0 {
		details := make(map[string]interface{}, len(failed))
		for url, reason := range failed {
			details[url] = reason
		}
		return nil, errors.ErrRelayError.WithMessage("no relay accepted the place").WithDetails(details)
	}

	r.logger.Info("Place published",
		zap.String("event_id", event.ID),
		zap.String("name", payload.Name()),
		zap.Strings("accepted", accepted),
		zap.Int("failed", len(failed)),
	)

	result := &domain.PublishResult{
		Event:    toPlaceEvent(&event),
		Accepted: accepted,
	}
	if len(failed) > 0 {
		result.Failed = failed
	}
	return result, nil
}

func (r *RelayRepository) publishRelay(ctx context.Context, url string, event nostr.Event) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx, r.publishTimeout)
	defer cancel()

	relay, err := r.dial(ctx, url)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer relay.Close()

	return relay.Publish(ctx, event)
}

func (r *RelayRepository) verify(url string, event *nostr.Event) bool {
	ok, err := event.CheckSignature()
	if err != nil || !ok {
		r.logger.Debug("Dropping event with invalid signature",
			zap.String("relay", url),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return false
	}
	return true
}

func (r *RelayRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
