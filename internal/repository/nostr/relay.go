package nostr

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
)

// Relay - соединение с одним релеем
type Relay interface {
	URL() string
	Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error)
	// Subscribe отдаёт события до отмены ctx или закрытия подписки релеем
	Subscribe(ctx context.Context, filter nostr.Filter) (<-chan *nostr.Event, error)
	Publish(ctx context.Context, event nostr.Event) error
	Close() error
}

// Dialer открывает соединение с релеем
type Dialer func(ctx context.Context, url string) (Relay, error)

// DialWebsocket - Dialer поверх websocket-клиента go-nostr
func DialWebsocket(ctx context.Context, url string) (Relay, error) {
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, err
	}
	return &wsRelay{url: url, relay: relay}, nil
}

type wsRelay struct {
	url   string
	relay *nostr.Relay
}

func (r *wsRelay) URL() string {
	return r.url
}

func (r *wsRelay) Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	return r.relay.QuerySync(ctx, filter)
}

func (r *wsRelay) Subscribe(ctx context.Context, filter nostr.Filter) (<-chan *nostr.Event, error) {
	sub, err := r.relay.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		return nil, err
	}

	out := make(chan *nostr.Event)
	go func() {
		defer close(out)
		defer sub.Unsub()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.Events:
				if !ok {
					return
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (r *wsRelay) Publish(ctx context.Context, event nostr.Event) error {
	return r.relay.Publish(ctx, event)
}

func (r *wsRelay) Close() error {
	return r.relay.Close()
}
