package domain

import "time"

type PackageCard struct {
	ID             string
	Title          string
	Description    string
	BasePrice      float64
	Currency       string
	Nights         int
	DestCity       string
	HotelCount     int
	InclusionCount int
	Image          string
}

// RouteCard is one transport route in the listing.
type RouteCard struct {
	RouteID            string
	ProviderName       string
	ProviderType       string
	VehicleType        string
	RegistrationNumber string
	FromCity           string
	ToCity             string
	DepartureAt        time.Time
	ArrivalAt          *time.Time
	DepartureTime      string
	ArrivalTime        string
	DurationLabel      string
	MinPrice           float64
	SeatsLeft          int
	Image              string
	AvgRating          *float64
	ReviewCount        int
}

type TransportDeal struct {
	RouteID      string
	ProviderName string
	FromCity     string
	ToCity       string
	MinPrice     float64
	DepartureAt  time.Time
}

type Destination struct {
	ID    string
	City  string
	Stays int
	Image string
}

// Home is the landing page. Each section degrades independently.
type Home struct {
	Destinations []Destination
	Hotels       []HotelCard
	Packages     []PackageCard
}

// Facets feed the filter forms of the listing pages.
type Facets struct {
	Amenities      []Amenity
	Cities         []City
	RoomTypes      []string
	SeatClasses    []string
	TransportTypes []string
	MaxHotelPrice  float64
	MaxPackage     float64
	MaxSeatPrice   float64
}

const (
	DefaultMaxHotelPrice   = 50000
	DefaultMaxPackagePrice = 100000
	DefaultMaxSeatPrice    = 5000
)

// DefaultFacets is what the forms fall back to when lookups fail.
func DefaultFacets() Facets {
	return Facets{
		Amenities:      []Amenity{},
		Cities:         []City{},
		RoomTypes:      []string{},
		SeatClasses:    []string{},
		TransportTypes: []string{},
		MaxHotelPrice:  DefaultMaxHotelPrice,
		MaxPackage:     DefaultMaxPackagePrice,
		MaxSeatPrice:   DefaultMaxSeatPrice,
	}
}

type FAQ struct {
	ID       string `db:"id" bson:"_id,omitempty"`
	Question string `db:"question" bson:"question"`
	Answer   string `db:"answer" bson:"answer"`
}
