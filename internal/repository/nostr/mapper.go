package nostr

import (
	"encoding/json"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/places-service/internal/domain"
)

func toPlaceEvent(event *nostr.Event) domain.PlaceEvent {
	tags := make(domain.Tags, 0, len(event.Tags))
	for _, tag := range event.Tags {
		tags = append(tags, append(domain.Tag(nil), tag...))
	}

	return domain.PlaceEvent{
		ID:        event.ID,
		PubKey:    event.PubKey,
		CreatedAt: int64(event.CreatedAt),
		Kind:      event.Kind,
		Tags:      tags,
		Content:   event.Content,
		Sig:       event.Sig,
	}
}

func toNostrTags(tags domain.Tags) nostr.Tags {
	out := make(nostr.Tags, 0, len(tags))
	for _, tag := range tags {
		out = append(out, append(nostr.Tag(nil), tag...))
	}
	return out
}

func toNostrFilter(kind int, filter domain.PlaceFilter) nostr.Filter {
	f := nostr.Filter{
		Kinds:   []int{kind},
		Authors: filter.Authors,
		Limit:   filter.Limit,
	}

	tags := nostr.TagMap{}
	if len(filter.Identifiers) > 0 {
		tags[domain.TagIdentifier] = filter.Identifiers
	}
	if len(filter.Geohashes) > 0 {
		tags[domain.TagGeohash] = filter.Geohashes
	}
	if len(tags) > 0 {
		f.Tags = tags
	}

	if filter.Since != nil {
		since := nostr.Timestamp(filter.Since.Unix())
		f.Since = &since
	}
	return f
}

// profileContent - content события kind 0
type profileContent struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	DisplayNameOld string `json:"displayName"`
	Username       string `json:"username"`
	Picture        string `json:"picture"`
	About          string `json:"about"`
}

func toProfile(event *nostr.Event) (*domain.Profile, error) {
	var content profileContent
	if err := json.Unmarshal([]byte(event.Content), &content); err != nil {
		return nil, err
	}

	displayName := content.DisplayName
	if displayName == "" {
		displayName = content.DisplayNameOld
	}

	return &domain.Profile{
		PubKey:      event.PubKey,
		Name:        content.Name,
		DisplayName: displayName,
		Username:    content.Username,
		Picture:     content.Picture,
		About:       content.About,
		UpdatedAt:   time.Unix(int64(event.CreatedAt), 0).UTC(),
	}, nil
}

// newer - true, если a заменяет b (NIP-01: при равном времени побеждает меньший id)
func newer(a, b *nostr.Event) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}
