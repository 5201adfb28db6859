package domain

import "strings"

// Статусы места (Google business_status)
const (
	PlaceStatusOperational       = "OPERATIONAL"
	PlaceStatusClosedTemporarily = "CLOSED_TEMPORARILY"
	PlaceStatusClosedPermanently = "CLOSED_PERMANENTLY"
)

// PlaceTypeGroup - группа типов мест для выпадающего списка
type PlaceTypeGroup struct {
	Code  string   `json:"code"`
	Types []string `json:"types"`
}

// PlaceTypeGroups - каталог типов мест (Google place types)
var PlaceTypeGroups = []PlaceTypeGroup{
	{Code: "food_drink", Types: []string{"bakery", "bar", "cafe", "meal_delivery", "meal_takeaway", "night_club", "restaurant"}},
	{Code: "shopping", Types: []string{
		"bicycle_store", "book_store", "clothing_store", "convenience_store", "department_store",
		"electronics_store", "florist", "furniture_store", "hardware_store", "home_goods_store",
		"jewelry_store", "liquor_store", "pet_store", "shoe_store", "shopping_mall", "store", "supermarket",
	}},
	{Code: "culture", Types: []string{"art_gallery", "library", "movie_theater", "museum", "tourist_attraction"}},
	{Code: "leisure", Types: []string{"amusement_park", "aquarium", "bowling_alley", "campground", "casino", "gym", "park", "rv_park", "stadium", "zoo"}},
	{Code: "healthcare", Types: []string{"dentist", "doctor", "drugstore", "hospital", "pharmacy", "physiotherapist", "veterinary_care"}},
	{Code: "education", Types: []string{"primary_school", "school", "secondary_school", "university"}},
	{Code: "services", Types: []string{
		"accounting", "atm", "bank", "beauty_salon", "car_rental", "car_repair", "car_wash",
		"electrician", "funeral_home", "gas_station", "hair_care", "insurance_agency", "laundry",
		"lawyer", "locksmith", "lodging", "moving_company", "painter", "parking", "plumber",
		"post_office", "real_estate_agency", "roofing_contractor", "spa", "storage", "travel_agency",
	}},
	{Code: "civic", Types: []string{"city_hall", "courthouse", "embassy", "fire_station", "local_government_office", "police"}},
	{Code: "worship", Types: []string{"cemetery", "church", "hindu_temple", "mosque", "synagogue"}},
	{Code: "transport", Types: []string{"airport", "bus_station", "light_rail_station", "subway_station", "taxi_stand", "train_station", "transit_station"}},
}

var knownPlaceTypes = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, g := range PlaceTypeGroups {
		for _, t := range g.Types {
			m[t] = struct{}{}
		}
	}
	return m
}()

// ValidPlaceStatuses returns list of valid place statuses
func ValidPlaceStatuses() []string {
	return []string{
		PlaceStatusOperational,
		PlaceStatusClosedTemporarily,
		PlaceStatusClosedPermanently,
	}
}

// IsKnownStatus checks if status is valid
func IsKnownStatus(status string) bool {
	for _, s := range ValidPlaceStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsKnownPlaceType checks if place type is in the catalogue
func IsKnownPlaceType(placeType string) bool {
	_, ok := knownPlaceTypes[placeType]
	return ok
}

// TypeLabel - человекочитаемый тип: "tourist_attraction" -> "tourist attraction"
func TypeLabel(placeType string) string {
	return strings.ReplaceAll(placeType, "_", " ")
}

// StatusLabel - человекочитаемый статус. OPERATIONAL подразумевается и не показывается.
func StatusLabel(status string) string {
	if status == "" || status == PlaceStatusOperational {
		return ""
	}
	return strings.ReplaceAll(status, "_", " ")
}
