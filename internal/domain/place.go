package domain

import (
	"fmt"
	"time"
)

// Константы протокола
const (
	KindProfile = 0
	KindPlace   = 37515

	FeatureType   = "Feature"
	GeometryPoint = "Point"
)

// PropertyKey - ключ свойства места (в том виде, в котором он лежит в JSON)
type PropertyKey string

const (
	PropertyName        PropertyKey = "name"
	PropertyAbbrev      PropertyKey = "abbrev"
	PropertyDescription PropertyKey = "description"
	PropertyAddress     PropertyKey = "address"
	PropertyType        PropertyKey = "type"
	PropertyStatus      PropertyKey = "status"
	PropertyWebsite     PropertyKey = "website"
	PropertyPhone       PropertyKey = "phone"
	PropertyHours       PropertyKey = "hours"

	AddressStreet     PropertyKey = "street-address"
	AddressLocality   PropertyKey = "locality"
	AddressRegion     PropertyKey = "region"
	AddressCountry    PropertyKey = "country-name"
	AddressPostalCode PropertyKey = "postal-code"
)

// OptionalProperties - необязательные ключи properties (кроме address)
var OptionalProperties = []PropertyKey{
	PropertyAbbrev,
	PropertyDescription,
	PropertyType,
	PropertyStatus,
	PropertyWebsite,
	PropertyPhone,
	PropertyHours,
}

// AddressProperties - ключи вложенного address
var AddressProperties = []PropertyKey{
	AddressStreet,
	AddressLocality,
	AddressRegion,
	AddressCountry,
	AddressPostalCode,
}

// Address - почтовый адрес места. nil поле означает отсутствие значения.
type Address struct {
	StreetAddress *string `json:"street-address,omitempty"`
	Locality      *string `json:"locality,omitempty"`
	Region        *string `json:"region,omitempty"`
	CountryName   *string `json:"country-name,omitempty"`
	PostalCode    *string `json:"postal-code,omitempty"`
}

func (a *Address) field(key PropertyKey) *string {
	if a == nil {
		return nil
	}
	switch key {
	case AddressStreet:
		return a.StreetAddress
	case AddressLocality:
		return a.Locality
	case AddressRegion:
		return a.Region
	case AddressCountry:
		return a.CountryName
	case AddressPostalCode:
		return a.PostalCode
	}
	return nil
}

// Get возвращает значение поля адреса и признак его наличия
func (a *Address) Get(key PropertyKey) (string, bool) {
	return deref(a.field(key))
}

// IsEmpty - true, если ни одно поле адреса не заполнено
func (a *Address) IsEmpty() bool {
	for _, key := range AddressProperties {
		if _, ok := a.Get(key); ok {
			return false
		}
	}
	return true
}

// Properties - свойства GeoJSON Feature места
type Properties struct {
	Name        string   `json:"name"`
	Abbrev      *string  `json:"abbrev,omitempty"`
	Description *string  `json:"description,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Hours       *string  `json:"hours,omitempty"`
}

func (p *Properties) field(key PropertyKey) *string {
	if p == nil {
		return nil
	}
	switch key {
	case PropertyName:
		return &p.Name
	case PropertyAbbrev:
		return p.Abbrev
	case PropertyDescription:
		return p.Description
	case PropertyType:
		return p.Type
	case PropertyStatus:
		return p.Status
	case PropertyWebsite:
		return p.Website
	case PropertyPhone:
		return p.Phone
	case PropertyHours:
		return p.Hours
	}
	return p.Address.field(key)
}

// Get возвращает строковое свойство (включая поля address) и признак наличия.
// Пустая строка считается отсутствующим значением.
func (p *Properties) Get(key PropertyKey) (string, bool) {
	return deref(p.field(key))
}

// Geometry - GeoJSON геометрия, coordinates = [longitude, latitude]
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LngLat возвращает долготу и широту, ok=false если координат нет
func (g *Geometry) LngLat() (lng, lat float64, ok bool) {
	if g == nil || len(g.Coordinates) < 2 {
		return 0, 0, false
	}
	return g.Coordinates[0], g.Coordinates[1], true
}

// PlaceContent - содержимое события места (GeoJSON Feature)
type PlaceContent struct {
	Type       string      `json:"type"`
	Geometry   *Geometry   `json:"geometry,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Place - место, полученное из сети. Только для чтения.
type Place struct {
	ID        string       `json:"id"`
	PubKey    string       `json:"pubkey"`
	CreatedAt time.Time    `json:"created_at"`
	Kind      int          `json:"kind"`
	Tags      Tags         `json:"tags"`
	Content   PlaceContent `json:"content"`
}

// Name - properties.name
func (p *Place) Name() string {
	if p.Content.Properties == nil {
		return ""
	}
	return p.Content.Properties.Name
}

// Identifier - значение тега d
func (p *Place) Identifier() string {
	return p.Tags.Value(TagIdentifier)
}

// Geohash - значение тега g
func (p *Place) Geohash() string {
	return p.Tags.Value(TagGeohash)
}

// Property - total-доступ к свойству места
func (p *Place) Property(key PropertyKey) (string, bool) {
	return p.Content.Properties.Get(key)
}

// Coordinate - ключ replaceable события "<kind>:<pubkey>:<d>"
func (p *Place) Coordinate() string {
	return CoordinateKey(p.PubKey, p.Identifier())
}

// CoordinateKey собирает ключ места в формате тега "a"
func CoordinateKey(pubkey, identifier string) string {
	return fmt.Sprintf("%d:%s:%s", KindPlace, pubkey, identifier)
}

// AddressPointer - раскодированный адрес места (naddr)
type AddressPointer struct {
	PublicKey  string   `json:"pubkey"`
	Kind       int      `json:"kind"`
	Identifier string   `json:"identifier"`
	Relays     []string `json:"relays,omitempty"`
}

// Coordinate - ключ места, на которое указывает адрес
func (a AddressPointer) Coordinate() string {
	return CoordinateKey(a.PublicKey, a.Identifier)
}

// PlaceFilter - фильтр запроса мест у релеев
// BoundingBox - прямоугольник в градусах
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains проверяет, попадает ли точка в прямоугольник
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

type PlaceFilter struct {
	Authors     []string
	Identifiers []string
	Geohashes   []string
	Since       *time.Time
	Limit       int
}

// Profile - профиль владельца места (kind 0)
type Profile struct {
	PubKey      string    `json:"pubkey"`
	Name        string    `json:"name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Username    string    `json:"username,omitempty"`
	Picture     string    `json:"picture,omitempty"`
	About       string    `json:"about,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BestName - отображаемое имя владельца, как в карточке места
func (p *Profile) BestName() string {
	for _, name := range []string{p.DisplayName, p.Name, p.Username} {
		if name != "" {
			return name
		}
	}
	return p.PubKey
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}
