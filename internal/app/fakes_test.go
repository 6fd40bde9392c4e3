package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

var errBoom = errors.New("boom")

// ---- cache ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- catalog ----

// fakeCatalog serves canned data; any method named in fail returns errBoom.
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool

	hotel     domain.Hotel
	images    []domain.Image
	roomTypes []domain.RoomType
	rooms     []domain.Room
	roomType  domain.RoomType
}

func (f *fakeCatalog) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	if f.fail[name] {
		return errBoom
	}
	return nil
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) TopDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	if err := f.hit("TopDestinations"); err != nil {
		return nil, err
	}
	return []domain.Destination{{ID: "c1", City: "Goa", Stays: 2}}, nil
}

func (f *fakeCatalog) FeaturedHotels(ctx context.Context, limit int) ([]domain.HotelCard, error) {
	if err := f.hit("FeaturedHotels"); err != nil {
		return nil, err
	}
	return []domain.HotelCard{{ID: "h1", Name: "Seaside Palms"}}, nil
}

func (f *fakeCatalog) PopularPackages(ctx context.Context, limit int) ([]domain.PackageCard, error) {
	if err := f.hit("PopularPackages"); err != nil {
		return nil, err
	}
	return []domain.PackageCard{{ID: "p1", Title: "Goa Beach Break"}}, nil
}

func (f *fakeCatalog) Hotel(ctx context.Context, id string) (domain.Hotel, error) {
	if err := f.hit("Hotel"); err != nil {
		return domain.Hotel{}, err
	}
	if id != f.hotel.ID {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return f.hotel, nil
}

func (f *fakeCatalog) HotelImages(ctx context.Context, hotelID string) ([]domain.Image, error) {
	return f.images, f.hit("HotelImages")
}

func (f *fakeCatalog) RoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	if err := f.hit("RoomTypes"); err != nil {
		return nil, err
	}
	out := make([]domain.RoomType, len(f.roomTypes))
	copy(out, f.roomTypes)
	return out, nil
}

func (f *fakeCatalog) Rooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	return f.rooms, f.hit("Rooms")
}

func (f *fakeCatalog) HotelAmenities(ctx context.Context, hotelID string) ([]domain.Amenity, error) {
	return []domain.Amenity{{ID: "a1", Code: "free_wifi", Label: "Free WiFi"}}, f.hit("HotelAmenities")
}

func (f *fakeCatalog) HotelReviews(ctx context.Context, hotelID string) ([]domain.Review, error) {
	return []domain.Review{}, f.hit("HotelReviews")
}

func (f *fakeCatalog) AvgRating(ctx context.Context, hotelID string) (*float64, error) {
	v := 4.5
	return &v, f.hit("AvgRating")
}

func (f *fakeCatalog) MinPrice(ctx context.Context, hotelID string) (*float64, error) {
	v := 6500.0
	return &v, f.hit("MinPrice")
}

func (f *fakeCatalog) TransportSuggestions(ctx context.Context, cityID string) ([]domain.TransportSuggestion, error) {
	return []domain.TransportSuggestion{{RouteID: "r1"}}, f.hit("TransportSuggestions")
}

func (f *fakeCatalog) RoomType(ctx context.Context, hotelID, roomTypeID string) (domain.RoomType, error) {
	if err := f.hit("RoomType"); err != nil {
		return domain.RoomType{}, err
	}
	if hotelID != f.hotel.ID || roomTypeID != f.roomType.ID {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return f.roomType, nil
}

func (f *fakeCatalog) Rates(ctx context.Context, roomTypeID string) ([]domain.Rate, error) {
	return []domain.Rate{{ID: "rate1", Price: 6500}}, f.hit("Rates")
}

func (f *fakeCatalog) RoomTypeImages(ctx context.Context, hotelID, roomTypeID string) ([]domain.Image, error) {
	return []domain.Image{{URL: "/uploads/room.jpg"}}, f.hit("RoomTypeImages")
}

func (f *fakeCatalog) RoomTypeAmenities(ctx context.Context, roomTypeID string) ([]domain.Amenity, error) {
	return []domain.Amenity{}, f.hit("RoomTypeAmenities")
}

func (f *fakeCatalog) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	if err := f.hit("Amenities"); err != nil {
		return nil, err
	}
	return []domain.Amenity{{ID: "a1", Code: "free_wifi", Label: "Free WiFi"}}, nil
}

func (f *fakeCatalog) Cities(ctx context.Context) ([]domain.City, error) {
	if err := f.hit("Cities"); err != nil {
		return nil, err
	}
	return []domain.City{{ID: "c1", Name: "Goa"}}, nil
}

func (f *fakeCatalog) RoomTypeNames(ctx context.Context) ([]string, error) {
	return []string{"Deluxe"}, f.hit("RoomTypeNames")
}

func (f *fakeCatalog) SeatClasses(ctx context.Context) ([]string, error) {
	return []string{"Economy"}, f.hit("SeatClasses")
}

func (f *fakeCatalog) TransportTypes(ctx context.Context) ([]string, error) {
	return []string{"bus"}, f.hit("TransportTypes")
}

func (f *fakeCatalog) MaxPrices(ctx context.Context) (float64, float64, float64, error) {
	if err := f.hit("MaxPrices"); err != nil {
		return domain.DefaultMaxHotelPrice, domain.DefaultMaxPackagePrice, domain.DefaultMaxSeatPrice, err
	}
	return 18000, 52000, 12500, nil
}

// ---- listings ----

type fakeListings struct {
	err error
}

func (f *fakeListings) ListHotels(ctx context.Context, raw url.Values) (listing.Result[domain.HotelCard], error) {
	c := listing.Criteria{}
	p := listing.NewPage(raw.Get("page"), raw.Get("perPage"), listing.Bounds{})
	if f.err != nil {
		return listing.Empty[domain.HotelCard](c, p), f.err
	}
	return listing.Result[domain.HotelCard]{Items: []domain.HotelCard{{ID: "h1"}}, Total: 1, Page: p, Criteria: c}, nil
}

func (f *fakeListings) ListPackages(ctx context.Context, raw url.Values) (listing.Result[domain.PackageCard], error) {
	return listing.Result[domain.PackageCard]{Items: []domain.PackageCard{}}, f.err
}

func (f *fakeListings) ListRoutes(ctx context.Context, raw url.Values) (listing.Result[domain.RouteCard], error) {
	return listing.Result[domain.RouteCard]{Items: []domain.RouteCard{}}, f.err
}

func (f *fakeListings) HotelDeals(ctx context.Context, raw url.Values) (listing.Result[domain.HotelCard], error) {
	return listing.Result[domain.HotelCard]{Items: []domain.HotelCard{{ID: "h2"}}, Total: 1}, f.err
}

func (f *fakeListings) TransportDeals(ctx context.Context, raw url.Values) (listing.Result[domain.TransportDeal], error) {
	return listing.Result[domain.TransportDeal]{Items: []domain.TransportDeal{{RouteID: "r1"}}, Total: 1}, f.err
}

// ---- accounts ----

type fakeAccounts struct {
	mu      sync.Mutex
	byEmail map[string]domain.NewAccount
	created []domain.NewAccount
	err     error
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, a domain.NewAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.byEmail == nil {
		f.byEmail = map[string]domain.NewAccount{}
	}
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrEmailTaken
	}
	f.byEmail[a.Email] = a
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAccounts) Credentials(ctx context.Context, email, role string) (domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byEmail[email]
	if !ok || (role != "" && a.Role != role) {
		return domain.Credentials{}, domain.ErrNotFound
	}
	return domain.Credentials{ID: a.UserID, Email: a.Email, PasswordHash: a.PasswordHash, Role: a.Role}, nil
}

func (f *fakeAccounts) CredentialsByID(ctx context.Context, id string) (domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byEmail {
		if a.UserID == id {
			return domain.Credentials{ID: a.UserID, Email: a.Email, PasswordHash: a.PasswordHash, Role: a.Role}, nil
		}
	}
	return domain.Credentials{}, domain.ErrNotFound
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, a := range f.byEmail {
		if a.UserID == id {
			a.PasswordHash = hash
			f.byEmail[k] = a
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- vendor ----

type fakeVendor struct {
	owner   string
	hotelID string
	numbers []string
	hotels  []domain.NewHotel
	batches []domain.RoomBatch
	err     error
}

func (f *fakeVendor) CreateHotel(ctx context.Context, h domain.NewHotel) error {
	if f.err != nil {
		return f.err
	}
	f.hotels = append(f.hotels, h)
	return nil
}

func (f *fakeVendor) OwnedHotel(ctx context.Context, hotelID, ownerID string) (domain.OwnedHotel, error) {
	if hotelID != f.hotelID || ownerID != f.owner {
		return domain.OwnedHotel{}, domain.ErrNotFound
	}
	return domain.OwnedHotel{ID: hotelID, Name: "Seaside Palms"}, nil
}

func (f *fakeVendor) RoomNumbers(ctx context.Context, hotelID string) ([]string, error) {
	return f.numbers, nil
}

func (f *fakeVendor) HotelRoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	return []domain.RoomType{}, nil
}

func (f *fakeVendor) CreateRooms(ctx context.Context, b domain.RoomBatch) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, b)
	f.numbers = append(f.numbers, b.Numbers()...)
	return nil
}

type fakeInvalidator struct{ ids []string }

func (f *fakeInvalidator) InvalidateHotel(ctx context.Context, id string) { f.ids = append(f.ids, id) }

// ---- dashboards & faqs ----

type fakeDashboards struct {
	vendorType string
}

func (f *fakeDashboards) VendorDashboard(ctx context.Context, userID, vendorType string) (domain.VendorDashboard, error) {
	f.vendorType = vendorType
	return domain.VendorDashboard{VendorType: vendorType}, nil
}

func (f *fakeDashboards) UserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return domain.UserProfile{}, errBoom
}

func (f *fakeDashboards) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	return domain.AdminStats{UserCount: 3}, nil
}

type fakeFAQs struct{ err error }

func (f fakeFAQs) List(ctx context.Context) ([]domain.FAQ, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.FAQ{{ID: "1", Question: "Q?", Answer: "A."}}, nil
}
