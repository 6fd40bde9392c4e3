package domain

import (
	"strconv"
	"time"
)

// HotelCard is one hotel in a listing, deals or home-page grid.
type HotelCard struct {
	ID           string
	Name         string
	City         string
	Country      string
	StarRating   float64
	MinPrice     float64
	Image        string
	AmenityCodes []string
}

type Amenity struct {
	ID    string `db:"id"`
	Code  string `db:"code"`
	Label string `db:"name"`
}

type City struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Image struct {
	URL       string `db:"url"`
	AltText   string `db:"alt_text"`
	IsPrimary bool   `db:"is_primary"`
}

type Rate struct {
	ID         string     `db:"id"`
	RoomTypeID string     `db:"room_type_id"`
	Price      float64    `db:"price"`
	Currency   string     `db:"currency"`
	ValidFrom  *time.Time `db:"valid_from"`
	ValidTo    *time.Time `db:"valid_to"`
	MinStay    int        `db:"min_stay"`
	MaxStay    *int       `db:"max_stay"`
	Inventory  int        `db:"inventory"`
}

type RoomType struct {
	ID          string   `db:"id"`
	HotelID     string   `db:"hotel_id"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	MaxGuests   int      `db:"max_guests"`
	AreaSqM     *float64 `db:"area_sq_m"`
	Rates       []Rate   `db:"-"`
	Images      []string `db:"-"`
}

type Room struct {
	ID         string   `db:"id"`
	RoomNumber string   `db:"room_number"`
	RoomTypeID string   `db:"room_type_id"`
	Floor      *int     `db:"floor"`
	Status     string   `db:"status"`
	Images     []string `db:"-"`
}

type Review struct {
	ID        string    `db:"id"`
	HotelID   string    `db:"hotel_id"`
	HotelName string    `db:"hotel_name"`
	Rating    float64   `db:"rating"`
	Title     string    `db:"title"`
	Comment   string    `db:"comment"`
	UserName  string    `db:"user_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Hotel is the header record of a detail page.
type Hotel struct {
	ID           string   `db:"id"`
	OwnerID      *string  `db:"owner_user_id"`
	Name         string   `db:"name"`
	Description  string   `db:"description"`
	AddressLine1 string   `db:"address_line1"`
	AddressLine2 string   `db:"address_line2"`
	CityID       *string  `db:"city_id"`
	City         string   `db:"city"`
	Country      string   `db:"country"`
	StarRating   *float64 `db:"star_rating"`
	Phone        string   `db:"phone"`
	Email        string   `db:"email"`
	Status       string   `db:"status"`
	PropertyType string   `db:"property_type"`
}

type TransportSuggestion struct {
	RouteID      string
	ProviderName string
	DepartureAt  *time.Time
	ArrivalAt    *time.Time
	Price        *float64
	Currency     string
	Summary      string
}

// HotelDetail is everything the hotel page shows. Sections other than Hotel
// may be empty when their query failed.
type HotelDetail struct {
	Hotel       Hotel
	Images      []Image
	RoomTypes   []RoomType
	Rooms       []Room
	Amenities   []Amenity
	Reviews     []Review
	AvgRating   *float64
	MinPrice    *float64
	Suggestions []TransportSuggestion
}

type RoomDetail struct {
	Hotel       Hotel
	HotelImages []Image
	RoomType    RoomType
	Rates       []Rate
	RoomImages  []Image
	Amenities   []Amenity
}

// NewHotel is a hotel row created by a vendor, at signup or from the dashboard.
type NewHotel struct {
	ID           string
	OwnerID      string
	Name         string
	Description  *string
	AddressLine1 string
	AddressLine2 *string
	CityID       *string
	StarRating   *float64
	Phone        *string
	Email        string
	PropertyType *string
	AmenityIDs   []string
}

// HotelForm is the add-hotel form as posted.
type HotelForm struct {
	Name         string
	Description  string
	AddressLine1 string
	AddressLine2 string
	CityID       string
	StarRating   string
	Phone        string
	Email        string
	PropertyType string
	AmenityIDs   []string
}

// RoomsForm is the add-rooms form as posted.
type RoomsForm struct {
	RoomTypeName        string
	RoomTypeDescription string
	BasePrice           string
	Currency            string
	RoomCount           string
	MaxGuests           string
	AreaSqM             string
	RoomNumberStart     string
	MinStay             string
	MaxStay             string
	DefaultFloor        string
	RoomsActive         bool
	AmenityIDs          []string
}

// RoomBatch is a validated add-rooms request: one room type, one rate and
// Count rooms numbered Start, Start+1, ...
type RoomBatch struct {
	HotelID     string
	RoomTypeID  string
	Name        string
	Description *string
	MaxGuests   int
	AreaSqM     *float64
	Currency    string
	Price       float64
	MinStay     int
	MaxStay     *int
	Start       int
	Count       int
	Floor       *int
	Status      string
	AmenityIDs  []string
}

// Numbers returns the candidate room numbers of the batch.
func (b RoomBatch) Numbers() []string {
	if b.Count <= 0 {
		return nil
	}
	out := make([]string, b.Count)
	for i := range out {
		out[i] = strconv.Itoa(b.Start + i)
	}
	return out
}

// OwnedHotel is the minimal hotel header a vendor form needs.
type OwnedHotel struct {
	ID         string   `db:"id"`
	Name       string   `db:"name"`
	CityID     *string  `db:"city_id"`
	CityName   string   `db:"city_name"`
	StarRating *float64 `db:"star_rating"`
}
