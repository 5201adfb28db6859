package dto

import "github.com/places-service/internal/domain"

// ListPlacesRequest - запрос на список мест из индекса
type ListPlacesRequest struct {
	Geohash string   `json:"geohash" validate:"omitempty,max=12,alphanum"`
	Authors []string `json:"authors,omitempty" validate:"omitempty,max=50,dive,hexkey"`
	Types   []string `json:"types,omitempty" validate:"omitempty,max=20,dive,placetype"`
	OpenNow bool     `json:"open_now"`
	Limit   int      `json:"limit" validate:"omitempty,min=1,max=500"`
}

// RadiusPlacesRequest - запрос на поиск мест в радиусе
type RadiusPlacesRequest struct {
	Lat      float64  `json:"lat" validate:"required,min=-90,max=90"`
	Lon      float64  `json:"lon" validate:"required,min=-180,max=180"`
	RadiusKm float64  `json:"radius_km" validate:"required,min=0.1,max=100"`
	Types    []string `json:"types,omitempty" validate:"omitempty,max=20,dive,placetype"`
	OpenNow  bool     `json:"open_now"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=500"`
}

// PlaceForm - поля формы места. Обязательность name и coordinates
// проверяет сборщик payload, чтобы вернуть VALIDATION_ERROR со списком полей.
type PlaceForm struct {
	Name          string    `json:"name" validate:"max=200"`
	Geohash       string    `json:"geohash" validate:"omitempty,max=12,alphanum"`
	Coordinates   []float64 `json:"coordinates" validate:"omitempty,max=3"`
	Abbrev        string    `json:"abbrev" validate:"max=50"`
	Description   string    `json:"description" validate:"max=2000"`
	StreetAddress string    `json:"street_address" validate:"max=200"`
	Locality      string    `json:"locality" validate:"max=100"`
	Region        string    `json:"region" validate:"max=100"`
	CountryName   string    `json:"country_name" validate:"max=100"`
	PostalCode    string    `json:"postal_code" validate:"max=20"`
	Type          string    `json:"type" validate:"placetype"`
	Status        string    `json:"status" validate:"placestatus"`
	Website       string    `json:"website" validate:"omitempty,url"`
	Phone         string    `json:"phone" validate:"max=50"`
	Hours         string    `json:"hours" validate:"max=200"`
}

// ToFields переводит форму в поля сборщика
func (f PlaceForm) ToFields() domain.PlaceFields {
	var coords []float64
	if len(f.Coordinates) > 0 {
		coords = append([]float64(nil), f.Coordinates...)
	}
	return domain.PlaceFields{
		Name:          f.Name,
		Geohash:       f.Geohash,
		Coordinates:   coords,
		Abbrev:        f.Abbrev,
		Description:   f.Description,
		StreetAddress: f.StreetAddress,
		Locality:      f.Locality,
		Region:        f.Region,
		CountryName:   f.CountryName,
		PostalCode:    f.PostalCode,
		Type:          f.Type,
		Status:        f.Status,
		Website:       f.Website,
		Phone:         f.Phone,
		Hours:         f.Hours,
	}
}

// PreparePlaceRequest - payload для подписи на стороне клиента
type PreparePlaceRequest struct {
	Owner string    `json:"owner" validate:"required,hexkey"`
	Place PlaceForm `json:"place"`
}

// PublishPlaceRequest - публикация места ключом сервиса.
// PreviousAddress - naddr редактируемого места, если это правка.
type PublishPlaceRequest struct {
	Place           PlaceForm `json:"place"`
	PreviousAddress string    `json:"previous_naddr,omitempty" validate:"omitempty,startswith=naddr1"`
}
