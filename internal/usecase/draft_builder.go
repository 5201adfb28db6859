package usecase

import (
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/pkg/naddr"
)

// DraftBuilder переводит место в редактируемый черновик и обратно
// в payload для публикации. Адрес строится с подсказками relayHints.
type DraftBuilder struct {
	relayHints []string
}

func NewDraftBuilder(relayHints []string) *DraftBuilder {
	return &DraftBuilder{
		relayHints: append([]string(nil), relayHints...),
	}
}

// ToDraft строит черновик из места, полученного с релеев.
// Ошибки: MALFORMED_ADDRESS, если alt не содержит ссылку на место;
// VALIDATION_ERROR, если у места пустое имя.
func (b *DraftBuilder) ToDraft(place *domain.Place) (*domain.DraftPlace, error) {
	// g может отсутствовать, geohash тогда "неизвестен" и не пересчитывается
	geohash := place.Tags.Value(domain.TagGeohash)

	alt, ok := place.Tags.Find(domain.TagAlt)
	if !ok {
		return nil, errors.ErrMalformedAddress.WithMessage("place has no alt tag")
	}
	token, err := naddr.Extract(alt.Value())
	if err != nil {
		return nil, err
	}

	fields := FieldsFromPlace(place)
	if fields.Name == "" {
		return nil, errors.NewValidationError(string(domain.PropertyName))
	}
	fields.Geohash = geohash

	return draftFromFields(fields, token), nil
}

// NewDraft строит черновик из отдельных полей. Для пустого имени
// (новое место) тег alt не ставится, адрес появится при публикации.
func (b *DraftBuilder) NewDraft(owner string, fields domain.PlaceFields) (*domain.DraftPlace, error) {
	if fields.Name == "" {
		return draftFromFields(fields, ""), nil
	}

	token, err := naddr.Derive(owner, fields.Name, b.relayHints)
	if err != nil {
		return nil, err
	}
	return draftFromFields(fields, token), nil
}

// ToPublishPayload собирает payload kind 37515 из полей формы.
// Пустые необязательные свойства в payload не попадают.
func (b *DraftBuilder) ToPublishPayload(owner string, fields domain.PlaceFields) (*domain.PlacePayload, error) {
	var missing []string
	if fields.Name == "" {
		missing = append(missing, string(domain.PropertyName))
	}
	if len(fields.Coordinates) < 2 {
		missing = append(missing, "coordinates")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	// адрес всегда от текущего имени и текущего владельца
	token, err := naddr.Derive(owner, fields.Name, b.relayHints)
	if err != nil {
		return nil, err
	}

	properties := &domain.Properties{
		Name:        fields.Name,
		Abbrev:      optional(fields.Abbrev),
		Description: optional(fields.Description),
		Type:        optional(fields.Type),
		Status:      optional(fields.Status),
		Website:     optional(fields.Website),
		Phone:       optional(fields.Phone),
		Hours:       optional(fields.Hours),
	}

	address := &domain.Address{
		StreetAddress: optional(fields.StreetAddress),
		Locality:      optional(fields.Locality),
		Region:        optional(fields.Region),
		CountryName:   optional(fields.CountryName),
		PostalCode:    optional(fields.PostalCode),
	}
	if !address.IsEmpty() {
		properties.Address = address
	}

	return &domain.PlacePayload{
		Kind: domain.KindPlace,
		Tags: placeTags(fields.Name, fields.Geohash, token),
		Content: domain.PlaceContent{
			Type: domain.FeatureType,
			Geometry: &domain.Geometry{
				Type:        domain.GeometryPoint,
				Coordinates: append([]float64(nil), fields.Coordinates...),
			},
			Properties: properties,
		},
	}, nil
}

// FieldsFromPlace раскладывает место в плоский набор полей формы,
// отсутствующие свойства становятся пустыми строками
func FieldsFromPlace(place *domain.Place) domain.PlaceFields {
	var coords []float64
	if geometry := place.Content.Geometry; geometry != nil && len(geometry.Coordinates) > 0 {
		coords = append([]float64(nil), geometry.Coordinates...)
	}

	return domain.PlaceFields{
		Name:          place.Name(),
		Geohash:       place.Geohash(),
		Coordinates:   coords,
		Abbrev:        property(place, domain.PropertyAbbrev),
		Description:   property(place, domain.PropertyDescription),
		StreetAddress: property(place, domain.AddressStreet),
		Locality:      property(place, domain.AddressLocality),
		Region:        property(place, domain.AddressRegion),
		CountryName:   property(place, domain.AddressCountry),
		PostalCode:    property(place, domain.AddressPostalCode),
		Type:          property(place, domain.PropertyType),
		Status:        property(place, domain.PropertyStatus),
		Website:       property(place, domain.PropertyWebsite),
		Phone:         property(place, domain.PropertyPhone),
		Hours:         property(place, domain.PropertyHours),
	}
}

func draftFromFields(fields domain.PlaceFields, token string) *domain.DraftPlace {
	var coords []float64
	if len(fields.Coordinates) > 0 {
		coords = append([]float64(nil), fields.Coordinates...)
	}

	return &domain.DraftPlace{
		Kind: domain.KindPlace,
		Tags: placeTags(fields.Name, fields.Geohash, token),
		Content: domain.DraftContent{
			Type: domain.FeatureType,
			Geometry: domain.Geometry{
				Type:        domain.GeometryPoint,
				Coordinates: coords,
			},
			Properties: domain.DraftProperties{
				Name:        fields.Name,
				Abbrev:      fields.Abbrev,
				Description: fields.Description,
				Address: domain.DraftAddress{
					StreetAddress: fields.StreetAddress,
					Locality:      fields.Locality,
					Region:        fields.Region,
					CountryName:   fields.CountryName,
					PostalCode:    fields.PostalCode,
				},
				Type:    fields.Type,
				Status:  fields.Status,
				Website: fields.Website,
				Phone:   fields.Phone,
				Hours:   fields.Hours,
			},
		},
	}
}

// placeTags - теги d, g, alt. Пустые g и alt не пишутся.
func placeTags(name, geohash, token string) domain.Tags {
	tags := domain.Tags{{domain.TagIdentifier, name}}
	if geohash != "" {
		tags = append(tags, domain.Tag{domain.TagGeohash, geohash})
	}
	if token != "" {
		tags = append(tags, domain.Tag{domain.TagAlt, naddr.AltText(token)})
	}
	return tags
}

func property(place *domain.Place, key domain.PropertyKey) string {
	value, _ := place.Property(key)
	return value
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
