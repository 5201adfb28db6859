package naddr

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/pkg/errors"
)

const ownerKey = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"

var relays = []string{"wss://relay.damus.io", "wss://nos.lol"}

func TestDerive_Deterministic(t *testing.T) {
	first, err := Derive(ownerKey, "Heritage Center", relays)
	require.NoError(t, err)
	second, err := Derive(ownerKey, "Heritage Center", relays)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "naddr1"))

	other, err := Derive(ownerKey, "Heritage Centre", relays)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestDerive_EmptyName(t *testing.T) {
	token, err := Derive(ownerKey, "", relays)
	assert.Empty(t, token)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func TestDerive_EmptyOwner(t *testing.T) {
	token, err := Derive("", "Heritage Center", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "naddr1"))
}

func TestDerive_InvalidOwner(t *testing.T) {
	_, err := Derive("abc123...", "Heritage Center", nil)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func TestDecode_RoundTrip(t *testing.T) {
	token, err := Derive(ownerKey, "North Dakota Heritage Center & State Museum", relays)
	require.NoError(t, err)

	ptr, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, ownerKey, ptr.PublicKey)
	assert.Equal(t, domain.KindPlace, ptr.Kind)
	assert.Equal(t, "North Dakota Heritage Center & State Museum", ptr.Identifier)
	assert.Equal(t, relays, ptr.Relays)
}

func TestDecode_Malformed(t *testing.T) {
	for _, token := range []string{"", "naddr1", "npub1xyz", "naddr1qqqqqq", "hello"} {
		t.Run(token, func(t *testing.T) {
			_, err := Decode(token)
			assert.True(t, stderrors.Is(err, errors.ErrMalformedAddress))
		})
	}
}

func TestExtract(t *testing.T) {
	token, err := Derive(ownerKey, "Heritage Center", relays)
	require.NoError(t, err)

	tests := []struct {
		name     string
		alt      string
		expected string
		wantErr  bool
	}{
		{
			name:     "canonical alt text",
			alt:      AltText(token),
			expected: token,
		},
		{
			name:     "link inside other text",
			alt:      "see https://go.yondar.me/place/" + token + " for details",
			expected: token,
		},
		{
			name:     "trailing newline",
			alt:      AltText(token) + "\n",
			expected: token,
		},
		{
			name:    "unrelated text",
			alt:     "some unrelated text",
			wantErr: true,
		},
		{
			name:    "empty",
			alt:     "",
			wantErr: true,
		},
		{
			name:    "link without naddr",
			alt:     "This event represents a place. View it on https://go.yondar.me/place/",
			wantErr: true,
		},
		{
			name:    "link with nothing after naddr",
			alt:     "This event represents a place. View it on https://go.yondar.me/place/naddr",
			wantErr: true,
		},
		{
			name:    "other host",
			alt:     "This event represents a place. View it on https://example.com/place/" + token,
			wantErr: true,
		},
		{
			name:    "old format without scheme",
			alt:     "This event represents a place. View it on go.yondar.me/" + token,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.alt)
			if tt.wantErr {
				assert.True(t, stderrors.Is(err, errors.ErrMalformedAddress))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
