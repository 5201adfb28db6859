package domain

import "encoding/json"

// DraftAddress - адрес черновика, все поля всегда присутствуют (привязка к форме)
type DraftAddress struct {
	StreetAddress string `json:"street-address"`
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	CountryName   string `json:"country-name"`
	PostalCode    string `json:"postal-code"`
}

// DraftProperties - свойства черновика, отсутствующие значения = ""
type DraftProperties struct {
	Name        string       `json:"name"`
	Abbrev      string       `json:"abbrev"`
	Description string       `json:"description"`
	Address     DraftAddress `json:"address"`
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	Website     string       `json:"website"`
	Phone       string       `json:"phone"`
	Hours       string       `json:"hours"`
}

// DraftContent - содержимое черновика
type DraftContent struct {
	Type       string          `json:"type"`
	Geometry   Geometry        `json:"geometry"`
	Properties DraftProperties `json:"properties"`
}

// DraftPlace - локальный редактируемый черновик места.
// Идентификатор владельца не хранится: он появляется только при публикации.
type DraftPlace struct {
	Kind    int          `json:"kind"`
	Tags    Tags         `json:"tags"`
	Content DraftContent `json:"content"`
}

// Fields разворачивает черновик в плоский набор полей
func (d *DraftPlace) Fields() PlaceFields {
	props := d.Content.Properties
	var coords []float64
	if len(d.Content.Geometry.Coordinates) > 0 {
		coords = append([]float64(nil), d.Content.Geometry.Coordinates...)
	}
	return PlaceFields{
		Name:          props.Name,
		Geohash:       d.Tags.Value(TagGeohash),
		Coordinates:   coords,
		Abbrev:        props.Abbrev,
		Description:   props.Description,
		StreetAddress: props.Address.StreetAddress,
		Locality:      props.Address.Locality,
		Region:        props.Address.Region,
		CountryName:   props.Address.CountryName,
		PostalCode:    props.Address.PostalCode,
		Type:          props.Type,
		Status:        props.Status,
		Website:       props.Website,
		Phone:         props.Phone,
		Hours:         props.Hours,
	}
}

// PlaceFields - плоский набор полей формы места
type PlaceFields struct {
	Name          string    `json:"name"`
	Geohash       string    `json:"geohash"`
	Coordinates   []float64 `json:"coordinates"`
	Abbrev        string    `json:"abbrev"`
	Description   string    `json:"description"`
	StreetAddress string    `json:"street_address"`
	Locality      string    `json:"locality"`
	Region        string    `json:"region"`
	CountryName   string    `json:"country_name"`
	PostalCode    string    `json:"postal_code"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Website       string    `json:"website"`
	Phone         string    `json:"phone"`
	Hours         string    `json:"hours"`
}

// PlacePayload - неподписанное событие места, готовое к публикации
type PlacePayload struct {
	Kind    int          `json:"kind"`
	Tags    Tags         `json:"tags"`
	Content PlaceContent `json:"content"`
}

// ContentJSON сериализует content для поля content события
func (p *PlacePayload) ContentJSON() (string, error) {
	data, err := json.Marshal(p.Content)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Name - properties.name публикуемого места
func (p *PlacePayload) Name() string {
	if p.Content.Properties == nil {
		return ""
	}
	return p.Content.Properties.Name
}
