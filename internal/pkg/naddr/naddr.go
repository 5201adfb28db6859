// Package naddr кодирует и извлекает адрес места (NIP-19 naddr).
//
// Грамматика текста тега alt:
//
//	alt   = AltPrefix token
//	token = "naddr1" bech32-data
//
// Адрес встраивается в человекочитаемый текст, поэтому Extract ищет ссылку
// внутри произвольной строки, а не разбирает структурированное поле.
package naddr

import (
	"strings"
	"unicode"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/pkg/errors"
)

const (
	// LinkPrefix - ссылка на страницу места, за ней следует token
	LinkPrefix = "https://go.yondar.me/place/"
	// AltPrefix - фиксированный текст тега alt перед token
	AltPrefix = "This event represents a place. View it on " + LinkPrefix

	tokenPrefix = "naddr"
)

// Derive кодирует (owner, kind 37515, name, relays) в naddr.
// Пустой name - ошибка INVALID_INPUT. Пустой owner допустим.
func Derive(owner, name string, relays []string) (string, error) {
	if name == "" {
		return "", errors.ErrInvalidInput.WithMessage("place name is required to derive an address")
	}

	token, err := nip19.EncodeEntity(owner, domain.KindPlace, name, relays)
	if err != nil {
		return "", errors.ErrInvalidInput.
			WithMessage("owner public key is not valid hex").
			WithCause(err)
	}
	return token, nil
}

// AltText - текст тега alt для token
func AltText(token string) string {
	return AltPrefix + token
}

// Extract находит ссылку на место в тексте тега alt и возвращает token.
// Token заканчивается на первом пробельном символе.
func Extract(alt string) (string, error) {
	marker := LinkPrefix + tokenPrefix
	i := strings.Index(alt, marker)
	if i < 0 {
		return "", errors.ErrMalformedAddress.WithMessage("alt tag does not contain a place link")
	}

	rest := alt[i+len(marker):]
	if j := strings.IndexFunc(rest, unicode.IsSpace); j >= 0 {
		rest = rest[:j]
	}
	if rest == "" {
		return "", errors.ErrMalformedAddress.WithMessage("place link in alt tag has no address")
	}
	return tokenPrefix + rest, nil
}

// Decode раскодирует naddr места
func Decode(token string) (domain.AddressPointer, error) {
	prefix, value, err := nip19.Decode(token)
	if err != nil {
		return domain.AddressPointer{}, errors.ErrMalformedAddress.
			WithMessage("address is not a valid naddr").
			WithCause(err)
	}
	if prefix != tokenPrefix {
		return domain.AddressPointer{}, errors.ErrMalformedAddress.WithMessage("expected naddr, got %s", prefix)
	}

	ep, ok := value.(nostr.EntityPointer)
	if !ok {
		return domain.AddressPointer{}, errors.ErrMalformedAddress.WithMessage("naddr payload is not an entity pointer")
	}
	if ep.Kind != domain.KindPlace {
		return domain.AddressPointer{}, errors.ErrMalformedAddress.WithMessage("naddr points to kind %d, not a place", ep.Kind)
	}

	return domain.AddressPointer{
		PublicKey:  ep.PublicKey,
		Kind:       ep.Kind,
		Identifier: ep.Identifier,
		Relays:     ep.Relays,
	}, nil
}
