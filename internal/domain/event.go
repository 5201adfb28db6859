package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotPlaceEvent  = errors.New("event is not a place")
	ErrInvalidContent = errors.New("place content is not valid json")
	ErrNoCoordinates  = errors.New("place has no coordinates")
	ErrNoIdentifier   = errors.New("place has no d tag")
)

// PlaceEvent - событие nostr в формате NIP-01 (content ещё не раскодирован)
type PlaceEvent struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      Tags   `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// ToPlace раскодирует событие в Place.
// События без geometry.coordinates или без тега d отбрасываются.
func (e *PlaceEvent) ToPlace() (*Place, error) {
	if e.Kind != KindPlace {
		return nil, fmt.Errorf("%w: kind %d", ErrNotPlaceEvent, e.Kind)
	}

	content, err := DecodePlaceContent([]byte(e.Content))
	if err != nil {
		return nil, err
	}
	if _, _, ok := content.Geometry.LngLat(); !ok {
		return nil, ErrNoCoordinates
	}
	if e.Tags.Value(TagIdentifier) == "" {
		return nil, ErrNoIdentifier
	}

	return &Place{
		ID:        e.ID,
		PubKey:    e.PubKey,
		CreatedAt: time.Unix(e.CreatedAt, 0).UTC(),
		Kind:      e.Kind,
		Tags:      e.Tags.Clone(),
		Content:   content,
	}, nil
}

type rawContent struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// DecodePlaceContent разбирает content места.
// Необязательные свойства неверного типа считаются отсутствующими.
func DecodePlaceContent(data []byte) (PlaceContent, error) {
	var raw rawContent
	if err := json.Unmarshal(data, &raw); err != nil {
		return PlaceContent{}, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	content := PlaceContent{
		Type:     raw.Type,
		Geometry: raw.Geometry,
	}
	if raw.Properties != nil {
		content.Properties = decodeProperties(raw.Properties)
	}
	return content, nil
}

func decodeProperties(m map[string]interface{}) *Properties {
	props := &Properties{
		Abbrev:      stringField(m, PropertyAbbrev),
		Description: stringField(m, PropertyDescription),
		Type:        stringField(m, PropertyType),
		Status:      stringField(m, PropertyStatus),
		Website:     stringField(m, PropertyWebsite),
		Phone:       stringField(m, PropertyPhone),
		Hours:       stringField(m, PropertyHours),
	}
	if name := stringField(m, PropertyName); name != nil {
		props.Name = *name
	}

	if am, ok := m[string(PropertyAddress)].(map[string]interface{}); ok {
		addr := &Address{
			StreetAddress: stringField(am, AddressStreet),
			Locality:      stringField(am, AddressLocality),
			Region:        stringField(am, AddressRegion),
			CountryName:   stringField(am, AddressCountry),
			PostalCode:    stringField(am, AddressPostalCode),
		}
		if !addr.IsEmpty() {
			props.Address = addr
		}
	}
	return props
}

// stringField - nil, если ключа нет, значение не строка или строка пустая
func stringField(m map[string]interface{}, key PropertyKey) *string {
	s, ok := m[string(key)].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
