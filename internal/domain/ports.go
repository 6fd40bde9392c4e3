package domain

import (
	"context"
	"net/url"

	"everjourney/internal/listing"
)

// ListingRepository serves the filtered, sorted and paginated pages.
// On failure the returned result still carries the request's criteria and page.
type ListingRepository interface {
	ListHotels(ctx context.Context, raw url.Values) (listing.Result[HotelCard], error)
	ListPackages(ctx context.Context, raw url.Values) (listing.Result[PackageCard], error)
	ListRoutes(ctx context.Context, raw url.Values) (listing.Result[RouteCard], error)
	HotelDeals(ctx context.Context, raw url.Values) (listing.Result[HotelCard], error)
	TransportDeals(ctx context.Context, raw url.Values) (listing.Result[TransportDeal], error)
}

type CatalogRepository interface {
	// home
	TopDestinations(ctx context.Context, limit int) ([]Destination, error)
	FeaturedHotels(ctx context.Context, limit int) ([]HotelCard, error)
	PopularPackages(ctx context.Context, limit int) ([]PackageCard, error)

	// hotel detail
	Hotel(ctx context.Context, id string) (Hotel, error)
	HotelImages(ctx context.Context, hotelID string) ([]Image, error)
	RoomTypes(ctx context.Context, hotelID string) ([]RoomType, error)
	Rooms(ctx context.Context, hotelID string) ([]Room, error)
	HotelAmenities(ctx context.Context, hotelID string) ([]Amenity, error)
	HotelReviews(ctx context.Context, hotelID string) ([]Review, error)
	AvgRating(ctx context.Context, hotelID string) (*float64, error)
	MinPrice(ctx context.Context, hotelID string) (*float64, error)
	TransportSuggestions(ctx context.Context, cityID string) ([]TransportSuggestion, error)

	// room detail
	RoomType(ctx context.Context, hotelID, roomTypeID string) (RoomType, error)
	Rates(ctx context.Context, roomTypeID string) ([]Rate, error)
	RoomTypeImages(ctx context.Context, hotelID, roomTypeID string) ([]Image, error)
	RoomTypeAmenities(ctx context.Context, roomTypeID string) ([]Amenity, error)

	// facets
	Amenities(ctx context.Context) ([]Amenity, error)
	Cities(ctx context.Context) ([]City, error)
	RoomTypeNames(ctx context.Context) ([]string, error)
	SeatClasses(ctx context.Context) ([]string, error)
	TransportTypes(ctx context.Context) ([]string, error)
	MaxPrices(ctx context.Context) (hotel, pkg, seat float64, err error)
}

type AccountRepository interface {
	// CreateAccount writes user, profile and the kind-specific rows in one
	// transaction. A duplicate email yields ErrEmailTaken.
	CreateAccount(ctx context.Context, a NewAccount) error
	// Credentials looks a login up by lower-cased email; role "" matches any role.
	Credentials(ctx context.Context, email, role string) (Credentials, error)
	CredentialsByID(ctx context.Context, id string) (Credentials, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type VendorRepository interface {
	CreateHotel(ctx context.Context, h NewHotel) error
	OwnedHotel(ctx context.Context, hotelID, ownerID string) (OwnedHotel, error)
	RoomNumbers(ctx context.Context, hotelID string) ([]string, error)
	HotelRoomTypes(ctx context.Context, hotelID string) ([]RoomType, error)
	// CreateRooms inserts the batch in one transaction. A room number the
	// database already holds for the hotel yields ErrRoomNumberTaken.
	CreateRooms(ctx context.Context, b RoomBatch) error
}

type DashboardRepository interface {
	VendorDashboard(ctx context.Context, userID, vendorType string) (VendorDashboard, error)
	UserProfile(ctx context.Context, userID string) (UserProfile, error)
	AdminStats(ctx context.Context) (AdminStats, error)
}

type FAQRepository interface {
	List(ctx context.Context) ([]FAQ, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore keeps SessionUser payloads server-side, keyed by an opaque id.
type SessionStore interface {
	Create(ctx context.Context, u SessionUser) (string, error)
	Get(ctx context.Context, id string) (SessionUser, error)
	Delete(ctx context.Context, id string) error
}
